package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const (
	flashCookie     = "metamorphosis_flash"
	flashMaxAge     = 60
	adminContextKey = "admin"
)

// Категории flash-сообщений
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash — одноразовое сообщение, которое показывается на следующей странице
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Renderer рендерит HTML-страницы и хранит flash-сообщения в cookie
type Renderer struct {
	log           *logger.Logger
	secureCookies bool
}

// NewRenderer создает новый рендерер страниц
func NewRenderer(log *logger.Logger, secureCookies bool) *Renderer {
	return &Renderer{log: log, secureCookies: secureCookies}
}

// HTML рендерит шаблон, добавляя общие данные: flash-сообщения и текущего администратора
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["flashes"] = append(r.popFlashes(c), flashesFromData(data)...)
	data["admin"] = currentAdmin(c)
	data["path"] = c.Request.URL.Path
	data["year"] = time.Now().Year()

	c.HTML(status, name, data)
}

// Flash запоминает сообщение до следующего запроса
func (r *Renderer) Flash(c *gin.Context, category, message string) {
	flashes := append(r.pendingFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashCookie, flashes)

	payload, err := json.Marshal(flashes)
	if err != nil {
		r.log.Warnw("failed to encode flash", "error", err)
		return
	}
	r.setCookie(c, flashCookie, base64.RawURLEncoding.EncodeToString(payload), flashMaxAge)
}

// RedirectWithFlash сохраняет сообщение и делает редирект
func (r *Renderer) RedirectWithFlash(c *gin.Context, category, message, location string) {
	r.Flash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// NotFound отдает страницу 404
func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Page Not Found"})
}

// ServerError логирует ошибку и отдает страницу 500
func (r *Renderer) ServerError(c *gin.Context, err error) {
	r.log.Errorw("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	_ = c.Error(err)
	r.HTML(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Server Error"})
}

// AdminError обрабатывает ошибку действия в панели: ошибки валидации и
// отсутствующие записи превращаются в flash и редирект на панель
func (r *Renderer) AdminError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrNotFound) {
		r.RedirectWithFlash(c, FlashError, services.UserMessage(err, "Request failed"), adminDashboardPath)
		return
	}
	r.ServerError(c, err)
}

func (r *Renderer) pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashCookie); ok {
		if flashes, ok := v.([]Flash); ok {
			return flashes
		}
	}
	return nil
}

// popFlashes читает и удаляет flash-сообщения предыдущего запроса
func (r *Renderer) popFlashes(c *gin.Context) []Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	r.setCookie(c, flashCookie, "", -1)

	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

func (r *Renderer) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   r.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// flashesFromData забирает сообщения, переданные прямо в данные шаблона
func flashesFromData(data gin.H) []Flash {
	if v, ok := data["error"].(string); ok && v != "" {
		return []Flash{{Category: FlashError, Message: v}}
	}
	return nil
}

func currentAdmin(c *gin.Context) *models.Admin {
	if v, ok := c.Get(adminContextKey); ok {
		if admin, ok := v.(*models.Admin); ok {
			return admin
		}
	}
	return nil
}
