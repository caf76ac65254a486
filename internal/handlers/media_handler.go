package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const fileTooLargeMessage = "File too large"

// MediaHandler обрабатывает загрузку и управление видео в панели
type MediaHandler struct {
	mediaService *services.MediaService
	maxBodySize  int64
	render       *Renderer
	log          *logger.Logger
}

// NewMediaHandler создает новый обработчик видео
func NewMediaHandler(mediaService *services.MediaService, maxBodySize int64, render *Renderer, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		maxBodySize:  maxBodySize,
		render:       render,
		log:          log,
	}
}

// Upload принимает multipart-форму с видео
func (h *MediaHandler) Upload(c *gin.Context) {
	// Заведомо слишком большой запрос отклоняем до разбора тела
	if h.maxBodySize > 0 && c.Request.ContentLength > h.maxBodySize {
		h.render.RedirectWithFlash(c, FlashError, fileTooLargeMessage, adminDashboardPath)
		return
	}
	if h.maxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.render.RedirectWithFlash(c, FlashError, fileTooLargeMessage, adminDashboardPath)
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			h.render.RedirectWithFlash(c, FlashError, "No file selected", adminDashboardPath)
		default:
			h.log.Warnw("failed to parse upload form", "error", err)
			h.render.RedirectWithFlash(c, FlashError, "Upload failed, please try again", adminDashboardPath)
		}
		return
	}

	_, featured := c.GetPostForm("is_featured")
	video, err := h.mediaService.Upload(services.UploadInput{
		File:        firstFile(form, "video"),
		Thumbnail:   firstFile(form, "thumbnail"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Duration:    c.PostForm("duration"),
		IsFeatured:  featured,
	})
	if err != nil {
		h.render.AdminError(c, err)
		return
	}

	h.log.Infow("video upload accepted", "video_id", video.ID, "admin_id", adminID(c))
	h.render.RedirectWithFlash(c, FlashSuccess, "Video uploaded successfully!", adminDashboardPath)
}

// Delete удаляет видео вместе с файлом
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.render)
	if !ok {
		return
	}

	if err := h.mediaService.Delete(id); err != nil {
		h.render.AdminError(c, err)
		return
	}

	h.render.RedirectWithFlash(c, FlashSuccess, "Video deleted!", adminDashboardPath)
}

// ToggleFeatured переключает флаг избранного
func (h *MediaHandler) ToggleFeatured(c *gin.Context) {
	id, ok := parseID(c, h.render)
	if !ok {
		return
	}

	video, err := h.mediaService.ToggleFeatured(id)
	if err != nil {
		h.render.AdminError(c, err)
		return
	}

	status := "unfeatured"
	if video.IsFeatured {
		status = "featured"
	}
	h.render.RedirectWithFlash(c, FlashSuccess, "Video "+status+" status updated!", adminDashboardPath)
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

func adminID(c *gin.Context) uint {
	if admin := currentAdmin(c); admin != nil {
		return admin.ID
	}
	return 0
}
