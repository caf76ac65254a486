package main

import (
	"log"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/config"
	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/database"
)

// Заполняет локальную базу демонстрационными заявками.
// Администратор и показатели создаются так же, как при старте сервера.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := cfg.DBPath
	if cfg.DBDriver == database.DriverPostgres {
		dsn = cfg.DatabaseURL
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(database.Options{Driver: cfg.DBDriver, DSN: dsn, LogLevel: cfg.DBLogLevel})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Seed(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}
	log.Printf("Admin created: %v, statistics seeded: %d", result.AdminCreated, result.StatisticsSeeded)

	var count int64
	if err := db.DB.Model(&models.Enquiry{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count enquiries: %v", err)
	}
	if count > 0 {
		log.Printf("Enquiries already present (%d), skipping demo data", count)
		return
	}

	now := time.Now().UTC()
	enquiries := []models.Enquiry{
		{
			Name:      "Priya Sharma",
			Email:     "priya.sharma@example.com",
			Phone:     "9876543210",
			College:   "Government Engineering College",
			Program:   "Career Readiness",
			Message:   "We would like a two-day workshop for our final year students.",
			Status:    models.EnquiryStatusNew,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			Name:      "Rahul Verma",
			Email:     "rahul.verma@example.com",
			Phone:     "9123456780",
			College:   "City Arts and Science College",
			Program:   "Communication Skills",
			Message:   "Please share the fee structure for 120 students.",
			Status:    models.EnquiryStatusContacted,
			Notes:     "Sent brochure by email",
			CreatedAt: now.Add(-26 * time.Hour),
		},
		{
			Name:      "Anita Rao",
			Email:     "anita.rao@example.com",
			Phone:     "9988776655",
			College:   "Institute of Management Studies",
			Program:   "Leadership & Teamwork",
			Status:    models.EnquiryStatusCompleted,
			Notes:     "Workshop delivered in March",
			CreatedAt: now.Add(-72 * time.Hour),
		},
	}

	for _, enquiry := range enquiries {
		if err := db.DB.Create(&enquiry).Error; err != nil {
			log.Printf("Failed to create enquiry for %s: %v", enquiry.Name, err)
		}
	}

	log.Printf("Seed data created successfully: %d enquiries", len(enquiries))
}
