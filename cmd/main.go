package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/config"
	"github.com/Santhu8632/metamorphosisworkshop/internal/handlers"
	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"
	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/database"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/storage"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/telegram"
	"github.com/Santhu8632/metamorphosisworkshop/web"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	// Подключаемся к базе данных
	dsn := cfg.DBPath
	if cfg.DBDriver == database.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	db, err := database.NewDatabase(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      dsn,
		LogLevel: cfg.DBLogLevel,
	})
	if err != nil {
		appLog.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	// Администратор и показатели по умолчанию, только если таблицы пусты
	seed, err := db.Seed(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		appLog.Fatalw("Failed to seed database", "error", err)
	}
	if seed.AdminCreated {
		appLog.Warnw("Default admin created, change the password", "username", cfg.AdminUsername)
	}

	// Инициализируем файловое хранилище
	store, err := storage.NewStorage(cfg.StaticRoot)
	if err != nil {
		appLog.Fatalw("Failed to initialize storage", "error", err)
	}

	// Telegram-уведомления о заявках включаются, только если заданы токен и чат
	var notifier services.EnquiryNotifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			appLog.Warnw("Failed to initialize Telegram bot, notifications disabled", "error", err)
		} else {
			notifier = bot
		}
	}

	// Создаем репозитории
	adminRepo := repository.NewAdminRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	enquiryRepo := repository.NewEnquiryRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	statRepo := repository.NewStatisticRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(adminRepo, sessionRepo, cfg.SessionSecret, cfg.SessionTTL, appLog)
	enquiryService := services.NewEnquiryService(enquiryRepo, notifier, appLog)
	mediaService := services.NewMediaService(videoRepo, store, cfg.MaxUploadSize, appLog)
	contentService := services.NewContentService(statRepo, videoRepo)

	if purged, err := authService.PurgeExpiredSessions(); err != nil {
		appLog.Warnw("Failed to purge expired sessions", "error", err)
	} else if purged > 0 {
		appLog.Infow("Expired sessions purged", "count", purged)
	}

	if report, err := mediaService.Reconcile(); err != nil {
		appLog.Warnw("Failed to reconcile media storage", "error", err)
	} else {
		appLog.Infow("Media storage reconciled",
			"staging_removed", report.StagingRemoved,
			"missing_files", len(report.MissingFiles),
		)
	}

	templates, err := web.Templates()
	if err != nil {
		appLog.Fatalw("Failed to parse templates", "error", err)
	}

	// Настраиваем Gin
	gin.SetMode(cfg.GinMode)

	router := handlers.NewRouter(handlers.RouterDeps{
		AuthService:        authService,
		ContentService:     contentService,
		EnquiryService:     enquiryService,
		MediaService:       mediaService,
		Storage:            store,
		Logger:             appLog,
		Templates:          templates,
		StaticFS:           web.Static(),
		MaxUploadSize:      cfg.MaxUploadSize,
		SecureCookies:      cfg.SecureCookies,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		HealthCheck:        db.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Infow("Starting Metamorphosis Workshop server", "addr", cfg.Addr(), "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalw("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	appLog.Infow("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Errorw("Server shutdown failed", "error", err)
	}
}
