package repository

import (
	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"gorm.io/gorm"
)

// VideoRepository представляет репозиторий для работы с видео
type VideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository создает новый репозиторий видео
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции
func (r *VideoRepository) WithTx(tx *gorm.DB) *VideoRepository {
	return &VideoRepository{db: tx}
}

// Transaction выполняет fn в одной транзакции
func (r *VideoRepository) Transaction(fn func(repo *VideoRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *VideoRepository) Create(video *models.Video) error {
	return r.db.Create(video).Error
}

func (r *VideoRepository) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// List возвращает все видео, новые первыми
func (r *VideoRepository) List() ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Order("upload_date DESC").Order("id DESC").Find(&videos).Error
	return videos, err
}

// ListByCategory возвращает видео одной категории, новые первыми
func (r *VideoRepository) ListByCategory(category string) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("category = ?", category).
		Order("upload_date DESC").Order("id DESC").
		Find(&videos).Error
	return videos, err
}

// ListFeatured возвращает не более limit избранных видео, новые первыми
func (r *VideoRepository) ListFeatured(limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("is_featured = ?", true).
		Order("upload_date DESC").Order("id DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// Categories возвращает отсортированный список различных категорий
func (r *VideoRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Video{}).Distinct("category").Order("category").Pluck("category", &categories).Error
	return categories, err
}

// FilenameExists проверяет, занято ли имя файла
func (r *VideoRepository) FilenameExists(filename string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Where("filename = ?", filename).Count(&count).Error
	return count > 0, err
}

func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Count(&count).Error
	return count, err
}

func (r *VideoRepository) CountFeatured() (int64, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Where("is_featured = ?", true).Count(&count).Error
	return count, err
}

// ToggleFeatured инвертирует флаг избранного одним UPDATE и сообщает, была ли запись найдена
func (r *VideoRepository) ToggleFeatured(id uint) (bool, error) {
	result := r.db.Model(&models.Video{}).Where("id = ?", id).
		Update("is_featured", gorm.Expr("NOT is_featured"))
	return result.RowsAffected > 0, result.Error
}

// Delete удаляет запись и сообщает, была ли она найдена
func (r *VideoRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Video{}, id)
	return result.RowsAffected > 0, result.Error
}
