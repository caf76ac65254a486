package models

import (
	"time"
)

// Admin представляет администратора сайта
type Admin struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"size:200;not null"` // bcrypt-хеш
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
	IsActive  bool       `json:"is_active" gorm:"not null"`
}

// AdminSession представляет серверную сессию администратора
type AdminSession struct {
	ID         string    `json:"id" gorm:"type:text;primaryKey"`
	AdminID    uint      `json:"admin_id" gorm:"index;not null"`
	UserAgent  string    `json:"user_agent" gorm:"size:255"`
	RemoteAddr string    `json:"remote_addr" gorm:"size:64"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`

	// Связи
	Admin Admin `json:"-" gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
}

// IsExpired проверяет, истекла ли сессия
func (s *AdminSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
