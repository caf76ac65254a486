package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options описывает параметры подключения к базе данных
type Options struct {
	Driver   string // sqlite или postgres
	DSN      string // путь к файлу для sqlite, строка подключения для postgres
	LogLevel string // silent, error, warn, info
}

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных и создает недостающие таблицы.
// Существующий файл базы никогда не удаляется.
func NewDatabase(opts Options) (*Database, error) {
	var dialector gorm.Dialector

	switch opts.Driver {
	case "", DriverSQLite:
		// Создаем директорию для базы данных если она не существует
		if dir := filepath.Dir(opts.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(opts.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	// Автомиграция моделей
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// Migrate создает таблицы, которых еще нет
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.Admin{},
		&models.AdminSession{},
		&models.Enquiry{},
		&models.Video{},
		&models.Statistic{},
	)
}

// Ping проверяет, что база данных отвечает
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedResult сообщает, какие данные были добавлены при инициализации
type SeedResult struct {
	AdminCreated     bool
	StatisticsSeeded int
}

// Seed заполняет пустые таблицы значениями по умолчанию.
// Администратор создается только если таблица администраторов пуста,
// показатели добавляются только если таблица показателей пуста.
func (d *Database) Seed(username, password string) (*SeedResult, error) {
	result := &SeedResult{}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var admins int64
		if err := tx.Model(&models.Admin{}).Count(&admins).Error; err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}

		if admins == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash default admin password: %w", err)
			}

			admin := models.Admin{
				Username: username,
				Password: string(hash),
				IsActive: true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create default admin: %w", err)
			}
			result.AdminCreated = true
		}

		var stats int64
		if err := tx.Model(&models.Statistic{}).Count(&stats).Error; err != nil {
			return fmt.Errorf("failed to count statistics: %w", err)
		}

		if stats == 0 {
			defaults := models.DefaultStatistics()
			if err := tx.Create(&defaults).Error; err != nil {
				return fmt.Errorf("failed to seed statistics: %w", err)
			}
			result.StatisticsSeeded = len(defaults)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// sqliteDSN включает внешние ключи и ожидание блокировки для файла sqlite
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
