package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultVideoCategory категория видео по умолчанию
const DefaultVideoCategory = "Training"

// Video представляет промо-видео, файл которого лежит в хранилище
type Video struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Filename    string    `json:"filename" gorm:"size:200;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Thumbnail   string    `json:"thumbnail" gorm:"size:200"`
	Duration    string    `json:"duration" gorm:"size:20"`
	Category    string    `json:"category" gorm:"size:50;default:'Training';index"` // Training, Testimonial, Workshop
	Views       int       `json:"views" gorm:"default:0"`
	UploadDate  time.Time `json:"upload_date" gorm:"index"`
	IsFeatured  bool      `json:"is_featured" gorm:"default:false;index"`
}

// BeforeCreate заполняет значения по умолчанию
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.Category == "" {
		v.Category = DefaultVideoCategory
	}
	if v.UploadDate.IsZero() {
		v.UploadDate = time.Now().UTC()
	}
	return nil
}

// URL возвращает публичный путь к файлу видео
func (v Video) URL() string {
	return "/videos/" + v.Filename
}

// ThumbnailURL возвращает публичный путь к превью или пустую строку
func (v Video) ThumbnailURL() string {
	if v.Thumbnail == "" {
		return ""
	}
	return "/images/" + v.Thumbnail
}
