package handlers

import (
	"net/http"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/services"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const enquiryThanksMessage = "Thank you for your enquiry! We will contact you soon."

// EnquiryHandler представляет обработчик формы обратной связи и заявок в панели
type EnquiryHandler struct {
	enquiryService *services.EnquiryService
	render         *Renderer
}

// NewEnquiryHandler создает новый обработчик заявок
func NewEnquiryHandler(enquiryService *services.EnquiryService, render *Renderer) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryService: enquiryService,
		render:         render,
	}
}

// ContactRequest представляет форму обратной связи
type ContactRequest struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email,max=100"`
	Phone   string `form:"phone" binding:"required,max=20"`
	College string `form:"college" binding:"max=200"`
	Program string `form:"program" binding:"max=100"`
	Message string `form:"message" binding:"max=5000"`
}

// ContactPage показывает форму обратной связи
func (h *EnquiryHandler) ContactPage(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "contact.html", gin.H{
		"title": "Contact Us",
		"form":  ContactRequest{},
	})
}

// SubmitContact принимает заявку с формы обратной связи
func (h *EnquiryHandler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		h.contactError(c, req, contactErrorMessage(err))
		return
	}

	_, err := h.enquiryService.Submit(services.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		College: req.College,
		Program: req.Program,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			h.contactError(c, req, services.UserMessage(err, "Please check the form"))
			return
		}
		h.render.ServerError(c, err)
		return
	}

	h.render.RedirectWithFlash(c, FlashSuccess, enquiryThanksMessage, "/contact")
}

// UpdateStatus меняет статус заявки из панели
func (h *EnquiryHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, h.render)
	if !ok {
		return
	}

	var notes *string
	if value, exists := c.GetPostForm("notes"); exists {
		notes = &value
	}

	status := models.EnquiryStatus(c.PostForm("status"))
	if _, err := h.enquiryService.UpdateStatus(id, status, notes); err != nil {
		h.render.AdminError(c, err)
		return
	}

	h.render.RedirectWithFlash(c, FlashSuccess, "Enquiry status updated!", adminDashboardPath)
}

// Delete удаляет заявку из панели
func (h *EnquiryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.render)
	if !ok {
		return
	}

	if err := h.enquiryService.Delete(id); err != nil {
		h.render.AdminError(c, err)
		return
	}

	h.render.RedirectWithFlash(c, FlashSuccess, "Enquiry deleted!", adminDashboardPath)
}

func (h *EnquiryHandler) contactError(c *gin.Context, req ContactRequest, message string) {
	h.render.HTML(c, http.StatusBadRequest, "contact.html", gin.H{
		"title": "Contact Us",
		"form":  req,
		"error": message,
	})
}

// contactErrorMessage превращает ошибку биндинга в сообщение для посетителя
func contactErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please enter a valid email address"
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}
