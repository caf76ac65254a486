package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/unicode/norm"
)

// Kind определяет каталог хранилища
type Kind string

const (
	KindVideos  Kind = "videos"
	KindImages  Kind = "images"
	KindGifs    Kind = "gifs"
	KindUploads Kind = "uploads"
)

const (
	stagingDir    = "tmp"
	sniffLen      = 262
	thumbnailSize = 480
)

var (
	// ErrInvalidName возвращается для имен с путями или служебными символами
	ErrInvalidName = errors.New("invalid file name")
	// ErrNotExist возвращается, если файла нет в хранилище
	ErrNotExist = errors.New("file does not exist")
	// ErrNameTaken возвращается, если файл с таким именем уже появился
	ErrNameTaken = errors.New("file name already taken")
	// ErrInvalidImage возвращается, если превью не удалось декодировать
	ErrInvalidImage = errors.New("invalid image")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

	windowsDeviceNames = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {},
	}
)

// Storage представляет файловое хранилище загруженных файлов
type Storage struct {
	basePath string
}

// NewStorage создает хранилище и все его каталоги, если их нет
func NewStorage(basePath string) (*Storage, error) {
	s := &Storage{basePath: basePath}

	for _, dir := range []string{
		s.Dir(KindVideos),
		s.Dir(KindImages),
		s.Dir(KindGifs),
		s.Dir(KindUploads),
		s.stagingPath(),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	return s, nil
}

// Dir возвращает каталог для указанного вида файлов
func (s *Storage) Dir(kind Kind) string {
	return filepath.Join(s.basePath, string(kind))
}

// Path возвращает путь к файлу внутри каталога, отклоняя имена с путями
func (s *Storage) Path(kind Kind, name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	return filepath.Join(s.Dir(kind), name), nil
}

// Exists проверяет наличие обычного файла
func (s *Storage) Exists(kind Kind, name string) bool {
	path, err := s.Path(kind, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Locate возвращает путь к существующему файлу или ErrNotExist
func (s *Storage) Locate(kind Kind, name string) (string, error) {
	path, err := s.Path(kind, name)
	if err != nil {
		return "", err
	}
	if !s.Exists(kind, name) {
		return "", ErrNotExist
	}
	return path, nil
}

// Remove удаляет файл; отсутствие файла ошибкой не считается
func (s *Storage) Remove(kind Kind, name string) error {
	path, err := s.Path(kind, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SanitizeFilename приводит имя файла к безопасному ASCII-виду:
// разделители путей превращаются в пробелы, пробелы в "_",
// все кроме [A-Za-z0-9_.-] удаляется, ведущие и конечные "." и "_" обрезаются.
// Может вернуть пустую строку.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}
	name = ascii.String()

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if _, ok := windowsDeviceNames[stem]; ok {
			name = "_" + name
		}
	}

	return name
}

// Ext возвращает расширение имени файла в нижнем регистре без точки
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// StagedFile — файл, записанный во временный каталог и еще не перенесенный на место
type StagedFile struct {
	Path string
	Size int64
	// Type — тип содержимого по сигнатуре; filetype.Unknown если не распознан
	Type types.Type
}

// Discard удаляет временный файл
func (f *StagedFile) Discard() {
	if f == nil || f.Path == "" {
		return
	}
	_ = os.Remove(f.Path)
}

// IsRecognizedNonVideo сообщает, что сигнатура распознана и это не видео
func (f *StagedFile) IsRecognizedNonVideo() bool {
	return f.Type != filetype.Unknown && f.Type.MIME.Type != "video"
}

// Stage сохраняет поток во временный файл и определяет тип содержимого
func (s *Storage) Stage(src io.Reader) (*StagedFile, error) {
	path := filepath.Join(s.stagingPath(), uuid.New().String()+".part")

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	head := make([]byte, sniffLen)
	n, readErr := io.ReadFull(src, head)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to read upload: %w", readErr)
	}
	head = head[:n]

	size, err := dst.Write(head)
	if err == nil {
		var rest int64
		rest, err = io.Copy(dst, src)
		size += int(rest)
	}
	if err == nil {
		err = dst.Sync()
	}
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staging file: %w", err)
	}

	kind, _ := filetype.Match(head)

	return &StagedFile{Path: path, Size: int64(size), Type: kind}, nil
}

// UniqueName подбирает свободное имя: сначала name, затем name_<8 hex>.ext.
// taken дополнительно проверяет занятость имени (например, в базе данных).
func (s *Storage) UniqueName(kind Kind, name string, taken func(string) (bool, error)) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for attempt := 0; attempt < 8; attempt++ {
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)
		}

		if _, err := s.Path(kind, candidate); err != nil {
			return "", err
		}
		if s.Exists(kind, candidate) {
			continue
		}
		if taken != nil {
			used, err := taken(candidate)
			if err != nil {
				return "", err
			}
			if used {
				continue
			}
		}
		return candidate, nil
	}

	return "", fmt.Errorf("failed to find a free name for %s", name)
}

// Promote переносит временный файл в каталог под именем name.
// Существующий файл не перезаписывается.
func (s *Storage) Promote(f *StagedFile, kind Kind, name string) error {
	path, err := s.Path(kind, name)
	if err != nil {
		return err
	}

	// Link не перезаписывает цель, в отличие от Rename
	if err := os.Link(f.Path, path); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("failed to move file into place: %w: %s", ErrNameTaken, name)
		}
		// файловая система без жестких ссылок
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("failed to move file into place: %w: %s", ErrNameTaken, name)
		}
		if err := os.Rename(f.Path, path); err != nil {
			return fmt.Errorf("failed to move file into place: %w", err)
		}
		f.Path = ""
		return nil
	}
	_ = os.Remove(f.Path)
	f.Path = ""

	return nil
}

// TrashedFile — файл, убранный из каталога до подтверждения удаления
type TrashedFile struct {
	original string
	path     string
}

// Trash переносит файл во временный каталог. Если файла нет, возвращает nil, nil.
func (s *Storage) Trash(kind Kind, name string) (*TrashedFile, error) {
	path, err := s.Path(kind, name)
	if err != nil {
		return nil, err
	}

	trash := filepath.Join(s.stagingPath(), uuid.New().String()+".trash")
	if err := os.Rename(path, trash); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to move file to trash: %w", err)
	}

	return &TrashedFile{original: path, path: trash}, nil
}

// Restore возвращает файл на прежнее место
func (t *TrashedFile) Restore() error {
	if t == nil {
		return nil
	}
	return os.Rename(t.path, t.original)
}

// Purge окончательно удаляет файл
func (t *TrashedFile) Purge() error {
	if t == nil {
		return nil
	}
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveThumbnail декодирует изображение, уменьшает до 480px по ширине
// и сохраняет JPEG в каталог изображений. Возвращает имя файла превью.
func (s *Storage) SaveThumbnail(src io.Reader, stem string) (string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Bounds().Dx() > thumbnailSize {
		img = imaging.Resize(img, thumbnailSize, 0, imaging.Lanczos)
	}

	name, err := s.UniqueName(KindImages, stem+"_thumb.jpg", nil)
	if err != nil {
		return "", err
	}

	path, err := s.Path(KindImages, name)
	if err != nil {
		return "", err
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return name, nil
}

// CleanupStaging удаляет временные файлы старше maxAge и возвращает их количество
func (s *Storage) CleanupStaging(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.stagingPath())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(filepath.Join(s.stagingPath(), entry.Name())); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

func (s *Storage) stagingPath() string {
	return filepath.Join(s.Dir(KindUploads), stagingDir)
}
