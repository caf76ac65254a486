package services

import (
	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// HomepageFeaturedLimit — сколько избранных видео показывает главная страница
const HomepageFeaturedLimit = 3

// ContentService отдает данные для публичных страниц
type ContentService struct {
	statRepo  *repository.StatisticRepository
	videoRepo *repository.VideoRepository
}

// NewContentService создает новый сервис публичного контента
func NewContentService(statRepo *repository.StatisticRepository, videoRepo *repository.VideoRepository) *ContentService {
	return &ContentService{
		statRepo:  statRepo,
		videoRepo: videoRepo,
	}
}

// Homepage — данные главной страницы
type Homepage struct {
	Stats          []models.Statistic
	FeaturedVideos []models.Video
}

// VideoLibrary — данные страницы видео
type VideoLibrary struct {
	Videos     []models.Video
	Categories []string
	Selected   string
}

// StatisticDTO — показатель в ответе /api/statistics
type StatisticDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Homepage возвращает показатели и до трех избранных видео (новые первыми)
func (s *ContentService) Homepage() (*Homepage, error) {
	stats, err := s.statRepo.ListOrdered()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load statistics")
	}

	featured, err := s.videoRepo.ListFeatured(HomepageFeaturedLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load featured videos")
	}

	return &Homepage{Stats: stats, FeaturedVideos: featured}, nil
}

// VideoLibrary возвращает видео (все или одной категории) и список категорий
func (s *ContentService) VideoLibrary(category string) (*VideoLibrary, error) {
	categories, err := s.videoRepo.Categories()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load categories")
	}

	var videos []models.Video
	if category != "" && lo.Contains(categories, category) {
		videos, err = s.videoRepo.ListByCategory(category)
	} else {
		category = ""
		videos, err = s.videoRepo.List()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load videos")
	}

	return &VideoLibrary{Videos: videos, Categories: categories, Selected: category}, nil
}

// Statistics возвращает показатели в порядке display_order
func (s *ContentService) Statistics() ([]StatisticDTO, error) {
	stats, err := s.statRepo.ListOrdered()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load statistics")
	}

	return lo.Map(stats, func(stat models.Statistic, _ int) StatisticDTO {
		return StatisticDTO{
			Name:  stat.Name,
			Value: stat.Value,
			Icon:  stat.Icon,
			Color: stat.Color,
		}
	}), nil
}
