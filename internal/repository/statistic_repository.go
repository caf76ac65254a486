package repository

import (
	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"gorm.io/gorm"
)

// StatisticRepository представляет репозиторий показателей главной страницы
type StatisticRepository struct {
	db *gorm.DB
}

// NewStatisticRepository создает новый репозиторий показателей
func NewStatisticRepository(db *gorm.DB) *StatisticRepository {
	return &StatisticRepository{db: db}
}

// ListOrdered возвращает показатели по возрастанию display_order
func (r *StatisticRepository) ListOrdered() ([]models.Statistic, error) {
	var stats []models.Statistic
	err := r.db.Order("display_order ASC").Order("id ASC").Find(&stats).Error
	return stats, err
}
