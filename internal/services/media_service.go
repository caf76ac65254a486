package services

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/metrics"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/storage"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var (
	// AllowedVideoExtensions — допустимые расширения видео
	AllowedVideoExtensions = []string{"mp4", "mov", "avi", "wmv", "mkv"}
	// AllowedImageExtensions — допустимые расширения превью
	AllowedImageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

// stagingMaxAge — через сколько незавершенные временные файлы считаются мусором
const stagingMaxAge = 24 * time.Hour

// MediaService управляет видео и их файлами
type MediaService struct {
	videoRepo *repository.VideoRepository
	storage   *storage.Storage
	maxSize   int64
	log       *logger.Logger
}

// NewMediaService создает новый сервис видео
func NewMediaService(videoRepo *repository.VideoRepository, store *storage.Storage, maxSize int64, log *logger.Logger) *MediaService {
	return &MediaService{
		videoRepo: videoRepo,
		storage:   store,
		maxSize:   maxSize,
		log:       log.Named("media"),
	}
}

// UploadInput — поля формы загрузки видео
type UploadInput struct {
	File        *multipart.FileHeader
	Thumbnail   *multipart.FileHeader
	Title       string
	Description string
	Category    string
	Duration    string
	IsFeatured  bool
}

// Upload проверяет файл и сохраняет его вместе с записью.
// Файл пишется во временный каталог, запись создается в транзакции,
// и только внутри нее файл переносится на место.
func (s *MediaService) Upload(in UploadInput) (video *models.Video, err error) {
	defer func() {
		switch {
		case err == nil:
			metrics.VideosUploaded.WithLabelValues("stored").Inc()
		case errors.Is(err, ErrValidation):
			metrics.VideosUploaded.WithLabelValues("rejected").Inc()
		default:
			metrics.VideosUploaded.WithLabelValues("failed").Inc()
		}
	}()

	if in.File == nil || strings.TrimSpace(in.File.Filename) == "" {
		return nil, validationError("No file selected")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("Title is required")
	}

	ext := storage.Ext(in.File.Filename)
	if !lo.Contains(AllowedVideoExtensions, ext) {
		return nil, validationError("File type not allowed. Allowed: " + strings.Join(AllowedVideoExtensions, ", "))
	}

	filename := storage.SanitizeFilename(in.File.Filename)
	if filename == "" || storage.Ext(filename) != ext {
		return nil, validationError("Invalid file name")
	}

	if s.maxSize > 0 && in.File.Size > s.maxSize {
		return nil, validationError("File too large")
	}

	src, err := in.File.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open upload")
	}
	defer src.Close()

	staged, err := s.storage.Stage(src)
	if err != nil {
		return nil, err
	}
	defer staged.Discard()

	if staged.Size == 0 {
		return nil, validationError("Uploaded file is empty")
	}
	if staged.IsRecognizedNonVideo() {
		return nil, validationError("File content is not a video")
	}

	thumbnail, err := s.saveThumbnail(in.Thumbnail, strings.TrimSuffix(filename, filepath.Ext(filename)))
	if err != nil {
		return nil, err
	}

	video = &models.Video{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Duration:    strings.TrimSpace(in.Duration),
		Thumbnail:   thumbnail,
		IsFeatured:  in.IsFeatured,
	}

	// Параллельная загрузка могла занять то же имя между проверкой и вставкой;
	// в этом случае имя подбирается заново один раз
	for attempt := 0; ; attempt++ {
		err = s.storeVideo(video, staged, filename)
		if err == nil {
			break
		}
		if attempt == 0 && isNameConflict(err) {
			s.log.Warnw("video file name taken concurrently, retrying", "filename", video.Filename, "error", err)
			continue
		}
		s.removeFile(storage.KindImages, thumbnail)
		return nil, errors.Wrap(err, "failed to store video")
	}

	// Запись зафиксирована; проверяем, что файл действительно на месте
	if !s.storage.Exists(storage.KindVideos, video.Filename) {
		if _, delErr := s.videoRepo.Delete(video.ID); delErr != nil {
			s.log.Errorw("failed to roll back video record", "video_id", video.ID, "error", delErr)
		}
		s.removeFile(storage.KindImages, thumbnail)
		return nil, errors.Newf("stored file %s is missing after upload", video.Filename)
	}

	s.log.Infow("video uploaded",
		"video_id", video.ID,
		"filename", video.Filename,
		"size", staged.Size,
		"featured", video.IsFeatured,
	)

	return video, nil
}

// Get возвращает видео по ID
func (s *MediaService) Get(id uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Video", id)
		}
		return nil, errors.Wrap(err, "failed to load video")
	}
	return video, nil
}

// List возвращает все видео, новые первыми
func (s *MediaService) List() ([]models.Video, error) {
	return s.videoRepo.List()
}

// Delete удаляет запись и файл видео. Отсутствие файла допускается.
func (s *MediaService) Delete(id uint) error {
	video, err := s.Get(id)
	if err != nil {
		return err
	}

	trashed, err := s.storage.Trash(storage.KindVideos, video.Filename)
	if err != nil && !errors.Is(err, storage.ErrInvalidName) {
		return errors.Wrap(err, "failed to remove video file")
	}

	found, err := s.videoRepo.Delete(id)
	if err != nil || !found {
		if restoreErr := trashed.Restore(); restoreErr != nil {
			s.log.Errorw("failed to restore video file", "video_id", id, "error", restoreErr)
		}
		if err != nil {
			return errors.Wrap(err, "failed to delete video")
		}
		return notFoundError("Video", id)
	}

	if err := trashed.Purge(); err != nil {
		s.log.Warnw("failed to purge video file", "video_id", id, "error", err)
	}
	s.removeFile(storage.KindImages, video.Thumbnail)

	s.log.Infow("video deleted", "video_id", id, "filename", video.Filename)
	return nil
}

// ToggleFeatured инвертирует флаг избранного и возвращает обновленную запись
func (s *MediaService) ToggleFeatured(id uint) (*models.Video, error) {
	found, err := s.videoRepo.ToggleFeatured(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to toggle featured flag")
	}
	if !found {
		return nil, notFoundError("Video", id)
	}
	return s.Get(id)
}

// Counts возвращает общее число видео и число избранных
func (s *MediaService) Counts() (total int64, featured int64, err error) {
	if total, err = s.videoRepo.Count(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count videos")
	}
	if featured, err = s.videoRepo.CountFeatured(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count featured videos")
	}
	return total, featured, nil
}

// ReconcileReport — результат сверки хранилища с базой
type ReconcileReport struct {
	StagingRemoved int
	MissingFiles   []string
}

// Reconcile удаляет старые временные файлы и находит записи без файлов.
// Выполняется при старте.
func (s *MediaService) Reconcile() (*ReconcileReport, error) {
	report := &ReconcileReport{}

	removed, err := s.storage.CleanupStaging(stagingMaxAge)
	if err != nil {
		return nil, errors.Wrap(err, "failed to clean staging directory")
	}
	report.StagingRemoved = removed

	videos, err := s.videoRepo.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list videos")
	}
	for _, video := range videos {
		if !s.storage.Exists(storage.KindVideos, video.Filename) {
			report.MissingFiles = append(report.MissingFiles, video.Filename)
			s.log.Warnw("video record without file", "video_id", video.ID, "filename", video.Filename)
		}
	}

	return report, nil
}

// storeVideo подбирает свободное имя, создает запись и переносит файл в одной транзакции.
// Если транзакция не зафиксирована, перенесенный файл удаляется.
func (s *MediaService) storeVideo(video *models.Video, staged *storage.StagedFile, filename string) error {
	promoted := false
	video.ID = 0
	err := s.videoRepo.Transaction(func(repo *repository.VideoRepository) error {
		name, err := s.storage.UniqueName(storage.KindVideos, filename, repo.FilenameExists)
		if err != nil {
			return err
		}
		video.Filename = name

		if err := repo.Create(video); err != nil {
			return errors.Wrap(err, "failed to create video record")
		}

		if err := s.storage.Promote(staged, storage.KindVideos, name); err != nil {
			return err
		}
		promoted = true
		return nil
	})
	if err != nil && promoted {
		s.removeFile(storage.KindVideos, video.Filename)
	}
	return err
}

func isNameConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, storage.ErrNameTaken)
}

// saveThumbnail сохраняет необязательное превью и возвращает его имя
func (s *MediaService) saveThumbnail(fh *multipart.FileHeader, stem string) (string, error) {
	if fh == nil || strings.TrimSpace(fh.Filename) == "" {
		return "", nil
	}

	if !lo.Contains(AllowedImageExtensions, storage.Ext(fh.Filename)) {
		return "", validationError("Thumbnail type not allowed. Allowed: " + strings.Join(AllowedImageExtensions, ", "))
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "failed to open thumbnail")
	}
	defer src.Close()

	name, err := s.storage.SaveThumbnail(src, stem)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", validationError("Thumbnail is not a valid image")
		}
		return "", errors.Wrap(err, "failed to save thumbnail")
	}
	return name, nil
}

func (s *MediaService) removeFile(kind storage.Kind, name string) {
	if name == "" {
		return
	}
	if err := s.storage.Remove(kind, name); err != nil {
		s.log.Warnw("failed to remove file", "kind", kind, "filename", name, "error", err)
	}
}
