package handlers

import (
	"net/http"

	"github.com/Santhu8632/metamorphosisworkshop/internal/services"

	"github.com/gin-gonic/gin"
)

// ContentHandler представляет обработчик публичных страниц
type ContentHandler struct {
	contentService *services.ContentService
	render         *Renderer
}

// NewContentHandler создает новый обработчик публичных страниц
func NewContentHandler(contentService *services.ContentService, render *Renderer) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		render:         render,
	}
}

// Index показывает главную страницу
func (h *ContentHandler) Index(c *gin.Context) {
	homepage, err := h.contentService.Homepage()
	if err != nil {
		h.render.ServerError(c, err)
		return
	}

	h.render.HTML(c, http.StatusOK, "index.html", gin.H{
		"title":           "Metamorphosis Workshop",
		"stats":           homepage.Stats,
		"featured_videos": homepage.FeaturedVideos,
	})
}

// Page возвращает обработчик статической страницы
func (h *ContentHandler) Page(template, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render.HTML(c, http.StatusOK, template, gin.H{"title": title})
	}
}

// Videos показывает библиотеку видео с фильтром по категории
func (h *ContentHandler) Videos(c *gin.Context) {
	library, err := h.contentService.VideoLibrary(c.Query("category"))
	if err != nil {
		h.render.ServerError(c, err)
		return
	}

	h.render.HTML(c, http.StatusOK, "videos.html", gin.H{
		"title":      "Videos",
		"videos":     library.Videos,
		"categories": library.Categories,
		"selected":   library.Selected,
	})
}

// Statistics отдает показатели в JSON
func (h *ContentHandler) Statistics(c *gin.Context) {
	stats, err := h.contentService.Statistics()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
