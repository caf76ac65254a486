package models

import (
	"time"

	"gorm.io/gorm"
)

// EnquiryStatus определяет статус обработки заявки
type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "New"
	EnquiryStatusContacted EnquiryStatus = "Contacted"
	EnquiryStatusCompleted EnquiryStatus = "Completed"
)

// EnquiryStatuses возвращает допустимые статусы в порядке обработки
func EnquiryStatuses() []EnquiryStatus {
	return []EnquiryStatus{EnquiryStatusNew, EnquiryStatusContacted, EnquiryStatusCompleted}
}

// Valid проверяет, что статус входит в перечисление
func (s EnquiryStatus) Valid() bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusContacted, EnquiryStatusCompleted:
		return true
	}
	return false
}

// Enquiry представляет заявку посетителя с формы обратной связи
type Enquiry struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"size:100;not null"`
	Email     string        `json:"email" gorm:"size:100;not null"`
	Phone     string        `json:"phone" gorm:"size:20;not null"`
	College   string        `json:"college" gorm:"size:200"`
	Program   string        `json:"program" gorm:"size:100"`
	Message   string        `json:"message" gorm:"type:text"`
	Status    EnquiryStatus `json:"status" gorm:"size:20;default:'New';index"`
	Notes     string        `json:"notes" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BeforeCreate выставляет статус по умолчанию
func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.Status == "" {
		e.Status = EnquiryStatusNew
	}
	return nil
}
