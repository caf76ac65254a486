package handlers

import (
	"net/http"
	"strconv"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler показывает панель администратора
type AdminHandler struct {
	enquiryService *services.EnquiryService
	mediaService   *services.MediaService
	render         *Renderer
}

// NewAdminHandler создает новый обработчик панели
func NewAdminHandler(enquiryService *services.EnquiryService, mediaService *services.MediaService, render *Renderer) *AdminHandler {
	return &AdminHandler{
		enquiryService: enquiryService,
		mediaService:   mediaService,
		render:         render,
	}
}

// DashboardStats — счетчики в шапке панели
type DashboardStats struct {
	TotalEnquiries int64
	NewEnquiries   int64
	TotalVideos    int64
	FeaturedVideos int64
}

// Dashboard показывает все заявки, все видео и счетчики
func (h *AdminHandler) Dashboard(c *gin.Context) {
	enquiries, err := h.enquiryService.List()
	if err != nil {
		h.render.ServerError(c, err)
		return
	}

	videos, err := h.mediaService.List()
	if err != nil {
		h.render.ServerError(c, err)
		return
	}

	var stats DashboardStats
	if stats.TotalEnquiries, stats.NewEnquiries, err = h.enquiryService.Counts(); err != nil {
		h.render.ServerError(c, err)
		return
	}
	if stats.TotalVideos, stats.FeaturedVideos, err = h.mediaService.Counts(); err != nil {
		h.render.ServerError(c, err)
		return
	}

	h.render.HTML(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":      "Admin Dashboard",
		"enquiries":  enquiries,
		"videos":     videos,
		"stats":      stats,
		"statuses":   models.EnquiryStatuses(),
		"categories": []string{"Training", "Testimonial", "Workshop"},
	})
}

// parseID читает целочисленный :id из маршрута; при ошибке отдает 404
func parseID(c *gin.Context, render *Renderer) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		render.NotFound(c)
		return 0, false
	}
	return uint(id), true
}
