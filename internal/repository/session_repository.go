package repository

import (
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"

	"gorm.io/gorm"
)

// SessionRepository хранит серверные сессии администраторов
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository создает новый репозиторий сессий
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create сохраняет новую сессию
func (r *SessionRepository) Create(session *models.AdminSession) error {
	return r.db.Create(session).Error
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(id string) (*models.AdminSession, error) {
	var session models.AdminSession
	err := r.db.First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(id string) error {
	return r.db.Delete(&models.AdminSession{}, "id = ?", id).Error
}

// DeleteExpired удаляет истекшие сессии и возвращает их количество
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.AdminSession{})
	return result.RowsAffected, result.Error
}
