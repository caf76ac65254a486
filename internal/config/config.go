package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port    string
	Host    string
	GinMode string

	// Database
	DBDriver    string
	DBPath      string
	DatabaseURL string
	DBLogLevel  string

	// File Storage
	StaticRoot    string
	MaxUploadSize int64

	// Security
	SessionSecret      string
	SessionTTL         time.Duration
	SecureCookies      bool
	LoginRatePerMinute int
	TrustedProxies     []string // адреса/CIDR прокси, которым доверяем X-Forwarded-For

	// Default administrator
	AdminUsername string
	AdminPassword string

	// Telegram
	TelegramBotToken string
	TelegramChatID   int64

	// Logging
	LogLevel string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:             getEnv("PORT", "5000"),
		Host:             getEnv("HOST", "0.0.0.0"),
		GinMode:          getEnv("GIN_MODE", "release"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:           getEnv("DB_PATH", "metamorphosis.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBLogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
		StaticRoot:       getEnv("STATIC_ROOT", "static"),
		SessionSecret:    getEnv("SESSION_SECRET", "metamorphosis-workshop-secure-key-2024-change-in-production"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	// Парсим числовые значения
	config.MaxUploadSize = getInt64("MAX_UPLOAD_SIZE", 500*1024*1024) // 500MB по умолчанию
	config.TelegramChatID = getInt64("TELEGRAM_CHAT_ID", 0)
	config.LoginRatePerMinute = int(getInt64("LOGIN_RATE_PER_MINUTE", 10))

	config.SessionTTL = 24 * time.Hour
	if ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "")); err == nil && ttl > 0 {
		config.SessionTTL = ttl
	}

	config.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))

	if secure, err := strconv.ParseBool(getEnv("SECURE_COOKIES", "false")); err == nil {
		config.SecureCookies = secure
	}

	return config, nil
}

// Addr возвращает адрес для прослушивания
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

// splitList разбирает список через запятую, пустые элементы отбрасываются
func splitList(value string) []string {
	return lo.Compact(lo.Map(strings.Split(value, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
