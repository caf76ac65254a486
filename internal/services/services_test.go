package services

import (
	"bytes"
	"mime/multipart"
	"path/filepath"
	"testing"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/database"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/storage"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/telegram"

	"github.com/stretchr/testify/require"
)

// mp4Header — минимальная сигнатура ftyp, которую распознает filetype
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

type testEnv struct {
	db      *database.Database
	storage *storage.Storage

	auth     *AuthService
	enquiry  *EnquiryService
	media    *MediaService
	content  *ContentService
	notifier *recordingNotifier
}

type recordingNotifier struct {
	notices []telegram.EnquiryNotice
	err     error
}

func (n *recordingNotifier) SendEnquiryNotification(notice telegram.EnquiryNotice) error {
	n.notices = append(n.notices, notice)
	return n.err
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.NewDatabase(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(dir, "site.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Seed("admin", "admin123")
	require.NoError(t, err)

	store, err := storage.NewStorage(filepath.Join(dir, "static"))
	require.NoError(t, err)

	log := logger.NewNop()
	videoRepo := repository.NewVideoRepository(db.DB)
	notifier := &recordingNotifier{}

	return &testEnv{
		db:      db,
		storage: store,
		auth: NewAuthService(
			repository.NewAdminRepository(db.DB),
			repository.NewSessionRepository(db.DB),
			"test-secret",
			time.Hour,
			log,
		),
		enquiry:  NewEnquiryService(repository.NewEnquiryRepository(db.DB), notifier, log),
		media:    NewMediaService(videoRepo, store, 1<<20, log),
		content:  NewContentService(repository.NewStatisticRepository(db.DB), videoRepo),
		notifier: notifier,
	}
}

// fileHeader собирает multipart-форму с одним файлом и возвращает его заголовок
func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File[field][0]
}

func videoContent() []byte {
	return append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{0x01}, 1024)...)
}
