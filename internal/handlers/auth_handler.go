package handlers

import (
	"net/http"

	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie      = "metamorphosis_session"
	adminLoginPath     = "/admin/login"
	adminDashboardPath = "/admin/dashboard"
)

// AuthHandler представляет обработчик входа и выхода администратора
type AuthHandler struct {
	authService *services.AuthService
	limiter     *LoginLimiter
	render      *Renderer
	log         *logger.Logger
}

// NewAuthHandler создает новый обработчик авторизации
func NewAuthHandler(authService *services.AuthService, limiter *LoginLimiter, render *Renderer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		render:      render,
		log:         log,
	}
}

// LoginRequest — поля формы входа
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// LoginPage показывает форму входа; уже вошедшего администратора отправляет в панель
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if _, err := h.authService.Authenticate(token); err == nil {
			c.Redirect(http.StatusFound, adminDashboardPath)
			return
		}
	}

	h.render.HTML(c, http.StatusOK, "admin_login.html", gin.H{"title": "Admin Login"})
}

// Login проверяет учетные данные и выставляет cookie сессии
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		h.log.Warnw("login rate limit exceeded", "client_ip", c.ClientIP())
		h.render.HTML(c, http.StatusTooManyRequests, "admin_login.html", gin.H{
			"title": "Admin Login",
			"error": "Too many login attempts. Please try again later.",
		})
		return
	}

	var req LoginRequest
	_ = c.ShouldBind(&req)

	result, err := h.authService.Login(req.Username, req.Password, services.ClientInfo{
		UserAgent:  c.Request.UserAgent(),
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.render.HTML(c, http.StatusUnauthorized, "admin_login.html", gin.H{
				"title":    "Admin Login",
				"error":    services.UserMessage(err, "Invalid username or password"),
				"username": req.Username,
			})
			return
		}
		h.render.ServerError(c, err)
		return
	}

	h.render.setCookie(c, sessionCookie, result.Token, int(h.authService.TTL().Seconds()))
	c.Redirect(http.StatusFound, adminDashboardPath)
}

// Logout закрывает сессию и удаляет cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if err := h.authService.Logout(token); err != nil {
		h.log.Errorw("failed to close session", "error", err)
	}

	h.render.setCookie(c, sessionCookie, "", -1)
	h.render.RedirectWithFlash(c, FlashInfo, "Logged out successfully", "/")
}
