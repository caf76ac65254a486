package handlers

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/storage"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps — все, что нужно для сборки HTTP-маршрутов
type RouterDeps struct {
	AuthService    *services.AuthService
	ContentService *services.ContentService
	EnquiryService *services.EnquiryService
	MediaService   *services.MediaService
	Storage        *storage.Storage
	Logger         *logger.Logger

	Templates *template.Template
	StaticFS  fs.FS

	MaxUploadSize      int64
	SecureCookies      bool
	LoginRatePerMinute int
	// TrustedProxies перечисляет прокси, чьему X-Forwarded-For верим.
	// При пустом списке клиентом считается адрес соединения.
	TrustedProxies []string

	// HealthCheck проверяет доступность базы данных; может быть nil
	HealthCheck func(ctx context.Context) error
}

// NewRouter собирает gin.Engine со всеми маршрутами сайта и панели
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger.Named("http")
	render := NewRenderer(log, deps.SecureCookies)

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		log.Errorw("invalid trusted proxies, forwarded headers ignored", "proxies", deps.TrustedProxies, "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.SetHTMLTemplate(deps.Templates)
	router.Use(
		RequestLogger(log),
		MetricsMiddleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			render.ServerError(c, errors.Newf("panic: %v", recovered))
			c.Abort()
		}),
		SecurityHeaders(),
	)

	contentHandler := NewContentHandler(deps.ContentService, render)
	enquiryHandler := NewEnquiryHandler(deps.EnquiryService, render)
	authHandler := NewAuthHandler(deps.AuthService, NewLoginLimiter(deps.LoginRatePerMinute), render, log)
	adminHandler := NewAdminHandler(deps.EnquiryService, deps.MediaService, render)
	mediaHandler := NewMediaHandler(deps.MediaService, deps.MaxUploadSize, render, log)
	assetHandler := NewAssetHandler(deps.Storage, render)

	// Публичные страницы
	router.GET("/", contentHandler.Index)
	router.GET("/about", contentHandler.Page("about.html", "About Us"))
	router.GET("/programs", contentHandler.Page("programs.html", "Programs"))
	router.GET("/methodology", contentHandler.Page("methodology.html", "Methodology"))
	router.GET("/outcomes", contentHandler.Page("outcomes.html", "Outcomes"))
	router.GET("/videos", contentHandler.Videos)
	router.GET("/contact", enquiryHandler.ContactPage)
	router.POST("/contact", enquiryHandler.SubmitContact)
	router.GET("/api/statistics", contentHandler.Statistics)

	// Загруженные файлы и статика сайта
	router.GET("/videos/:filename", assetHandler.Serve(storage.KindVideos))
	router.GET("/images/:filename", assetHandler.Serve(storage.KindImages))
	router.GET("/gifs/:filename", assetHandler.Serve(storage.KindGifs))
	if deps.StaticFS != nil {
		router.StaticFS("/static", http.FS(deps.StaticFS))
	}

	// Панель администратора
	router.GET(adminLoginPath, authHandler.LoginPage)
	router.POST(adminLoginPath, authHandler.Login)

	admin := router.Group("/admin")
	admin.Use(AdminAuthMiddleware(deps.AuthService, render, log))
	{
		admin.GET("/logout", authHandler.Logout)
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.POST("/enquiry/:id/update", enquiryHandler.UpdateStatus)
		admin.POST("/enquiry/:id/delete", enquiryHandler.Delete)

		admin.POST("/video/upload", mediaHandler.Upload)
		admin.POST("/video/:id/delete", mediaHandler.Delete)
		admin.POST("/video/:id/toggle-featured", mediaHandler.ToggleFeatured)
	}

	// Служебные маршруты
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(ctx); err != nil {
				log.Errorw("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(render.NotFound)

	return router
}
