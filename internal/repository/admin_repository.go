package repository

import (
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"gorm.io/gorm"
)

// AdminRepository представляет репозиторий для работы с администраторами
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository создает новый репозиторий администраторов
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create создает администратора
func (r *AdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// GetByID получает администратора по ID
func (r *AdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetActiveByUsername получает активного администратора по имени пользователя
func (r *AdminRepository) GetActiveByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("username = ? AND is_active = ?", username, true).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// TouchLastLogin записывает время последнего входа
func (r *AdminRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login", at).Error
}
