package repository

import (
	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"gorm.io/gorm"
)

// EnquiryRepository представляет репозиторий для работы с заявками
type EnquiryRepository struct {
	db *gorm.DB
}

// NewEnquiryRepository создает новый репозиторий заявок
func NewEnquiryRepository(db *gorm.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

// Create создает новую заявку
func (r *EnquiryRepository) Create(enquiry *models.Enquiry) error {
	return r.db.Create(enquiry).Error
}

// GetByID получает заявку по ID
func (r *EnquiryRepository) GetByID(id uint) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.First(&enquiry, id).Error
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// GetAll получает все заявки, новые первыми
func (r *EnquiryRepository) GetAll() ([]models.Enquiry, error) {
	var enquiries []models.Enquiry
	err := r.db.Order("created_at DESC").Order("id DESC").Find(&enquiries).Error
	return enquiries, err
}

// Count возвращает общее количество заявок
func (r *EnquiryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Enquiry{}).Count(&count).Error
	return count, err
}

// CountByStatus возвращает количество заявок с указанным статусом
func (r *EnquiryRepository) CountByStatus(status models.EnquiryStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Enquiry{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Update сохраняет заявку
func (r *EnquiryRepository) Update(enquiry *models.Enquiry) error {
	return r.db.Save(enquiry).Error
}

// Delete удаляет заявку и сообщает, была ли она найдена
func (r *EnquiryRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Enquiry{}, id)
	return result.RowsAffected > 0, result.Error
}
