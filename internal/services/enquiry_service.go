package services

import (
	"strings"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/metrics"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/telegram"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// EnquiryNotifier уведомляет администратора о новой заявке
type EnquiryNotifier interface {
	SendEnquiryNotification(n telegram.EnquiryNotice) error
}

// EnquiryService представляет сервис приема и обработки заявок
type EnquiryService struct {
	enquiryRepo *repository.EnquiryRepository
	notifier    EnquiryNotifier
	log         *logger.Logger
}

// NewEnquiryService создает новый сервис заявок; notifier может быть nil
func NewEnquiryService(enquiryRepo *repository.EnquiryRepository, notifier EnquiryNotifier, log *logger.Logger) *EnquiryService {
	return &EnquiryService{
		enquiryRepo: enquiryRepo,
		notifier:    notifier,
		log:         log.Named("enquiry"),
	}
}

// SubmitInput — данные формы обратной связи
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	College string
	Program string
	Message string
}

// Submit создает заявку со статусом New. Повторная отправка создает новую запись.
func (s *EnquiryService) Submit(in SubmitInput) (*models.Enquiry, error) {
	enquiry := &models.Enquiry{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		College: strings.TrimSpace(in.College),
		Program: strings.TrimSpace(in.Program),
		Message: strings.TrimSpace(in.Message),
		Status:  models.EnquiryStatusNew,
	}

	if enquiry.Name == "" || enquiry.Email == "" || enquiry.Phone == "" {
		return nil, validationError("Name, email and phone are required")
	}

	if err := s.enquiryRepo.Create(enquiry); err != nil {
		return nil, errors.Wrap(err, "failed to create enquiry")
	}
	metrics.EnquiriesSubmitted.Inc()

	// Уведомление не должно ломать прием заявки
	if s.notifier != nil {
		notice := telegram.EnquiryNotice{
			Name:      enquiry.Name,
			Email:     enquiry.Email,
			Phone:     enquiry.Phone,
			College:   enquiry.College,
			Program:   enquiry.Program,
			Message:   enquiry.Message,
			CreatedAt: enquiry.CreatedAt,
		}
		if err := s.notifier.SendEnquiryNotification(notice); err != nil {
			s.log.Warnw("failed to send enquiry notification", "enquiry_id", enquiry.ID, "error", err)
		}
	}

	return enquiry, nil
}

// List возвращает все заявки, новые первыми
func (s *EnquiryService) List() ([]models.Enquiry, error) {
	return s.enquiryRepo.GetAll()
}

// Get возвращает заявку по ID
func (s *EnquiryService) Get(id uint) (*models.Enquiry, error) {
	enquiry, err := s.enquiryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Enquiry", id)
		}
		return nil, errors.Wrap(err, "failed to load enquiry")
	}
	return enquiry, nil
}

// UpdateStatus меняет статус заявки; notes перезаписывает заметки, если не nil
func (s *EnquiryService) UpdateStatus(id uint, status models.EnquiryStatus, notes *string) (*models.Enquiry, error) {
	if !status.Valid() {
		return nil, validationError("Invalid status. Allowed: New, Contacted, Completed")
	}

	enquiry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	enquiry.Status = status
	if notes != nil {
		enquiry.Notes = strings.TrimSpace(*notes)
	}

	if err := s.enquiryRepo.Update(enquiry); err != nil {
		return nil, errors.Wrap(err, "failed to update enquiry")
	}

	s.log.Infow("enquiry status updated", "enquiry_id", id, "status", status)
	return enquiry, nil
}

// Delete удаляет заявку без возможности восстановления
func (s *EnquiryService) Delete(id uint) error {
	found, err := s.enquiryRepo.Delete(id)
	if err != nil {
		return errors.Wrap(err, "failed to delete enquiry")
	}
	if !found {
		return notFoundError("Enquiry", id)
	}

	s.log.Infow("enquiry deleted", "enquiry_id", id)
	return nil
}

// Counts возвращает общее число заявок и число новых
func (s *EnquiryService) Counts() (total int64, fresh int64, err error) {
	if total, err = s.enquiryRepo.Count(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count enquiries")
	}
	if fresh, err = s.enquiryRepo.CountByStatus(models.EnquiryStatusNew); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count new enquiries")
	}
	return total, fresh, nil
}
