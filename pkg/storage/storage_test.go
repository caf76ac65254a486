package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewStorageCreatesDirectories(t *testing.T) {
	s := newTestStorage(t)

	for _, kind := range []Kind{KindVideos, KindImages, KindGifs, KindUploads} {
		info, err := os.Stat(s.Dir(kind))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"My Clip.MP4", "My_Clip.MP4"},
		{"../../etc/passwd", "etc_passwd"},
		{`..\..\windows\win.ini`, "windows_win.ini"},
		{"i contain cool \u00fcml\u00e4uts.mp4", "i_contain_cool_umlauts.mp4"},
		{"naïve café.mov", "naive_cafe.mov"},
		{"a<b>c|d.avi", "abcd.avi"},
		{"...", ""},
		{"CON.mp4", "_CON.mp4"},
		{"   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeFilename(tc.in))
		})
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, "mp4", Ext("clip.MP4"))
	assert.Equal(t, "exe", Ext("malware.exe"))
	assert.Equal(t, "", Ext("noext"))
}

func TestPathRejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	for _, name := range []string{"", ".", "..", "../x.mp4", "a/b.mp4", `a\b.mp4`} {
		_, err := s.Path(KindVideos, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	path, err := s.Path(KindVideos, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(KindVideos), "clip.mp4"), path)
}

func TestStageAndPromote(t *testing.T) {
	s := newTestStorage(t)

	staged, err := s.Stage(strings.NewReader("not really a video"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("not really a video")), staged.Size)
	assert.False(t, staged.IsRecognizedNonVideo())

	require.NoError(t, s.Promote(staged, KindVideos, "clip.mp4"))
	assert.True(t, s.Exists(KindVideos, "clip.mp4"))

	entries, err := os.ReadDir(s.stagingPath())
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(filepath.Join(s.Dir(KindVideos), "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "not really a video", string(data))
}

func TestPromoteDoesNotOverwrite(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(KindVideos), "clip.mp4"), []byte("old"), 0644))

	staged, err := s.Stage(strings.NewReader("new"))
	require.NoError(t, err)
	defer staged.Discard()

	assert.ErrorIs(t, s.Promote(staged, KindVideos, "clip.mp4"), ErrNameTaken)

	data, err := os.ReadFile(filepath.Join(s.Dir(KindVideos), "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestStageDetectsExecutable(t *testing.T) {
	s := newTestStorage(t)

	// Сигнатура PE/EXE
	staged, err := s.Stage(bytes.NewReader(append([]byte("MZ"), make([]byte, 100)...)))
	require.NoError(t, err)
	defer staged.Discard()

	assert.True(t, staged.IsRecognizedNonVideo())
}

func TestUniqueName(t *testing.T) {
	s := newTestStorage(t)

	name, err := s.UniqueName(KindVideos, "clip.mp4", nil)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", name)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(KindVideos), "clip.mp4"), nil, 0644))

	name, err = s.UniqueName(KindVideos, "clip.mp4", nil)
	require.NoError(t, err)
	assert.Regexp(t, `^clip_[0-9a-f]{8}\.mp4$`, name)

	// занято в базе, но не на диске
	name, err = s.UniqueName(KindVideos, "demo.mov", func(candidate string) (bool, error) {
		return candidate == "demo.mov", nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, "demo.mov", name)
	assert.True(t, strings.HasPrefix(name, "demo_"))
}

func TestTrashRestoreAndPurge(t *testing.T) {
	s := newTestStorage(t)
	path := filepath.Join(s.Dir(KindVideos), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	trashed, err := s.Trash(KindVideos, "clip.mp4")
	require.NoError(t, err)
	require.NotNil(t, trashed)
	assert.False(t, s.Exists(KindVideos, "clip.mp4"))

	require.NoError(t, trashed.Restore())
	assert.True(t, s.Exists(KindVideos, "clip.mp4"))

	trashed, err = s.Trash(KindVideos, "clip.mp4")
	require.NoError(t, err)
	require.NoError(t, trashed.Purge())
	assert.False(t, s.Exists(KindVideos, "clip.mp4"))

	missing, err := s.Trash(KindVideos, "missing.mp4")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, missing.Purge())
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	s := newTestStorage(t)
	assert.NoError(t, s.Remove(KindVideos, "missing.mp4"))
	assert.ErrorIs(t, s.Remove(KindVideos, "../x"), ErrInvalidName)
}

func TestLocate(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(KindGifs), "spin.gif"), []byte("GIF89a"), 0644))

	path, err := s.Locate(KindGifs, "spin.gif")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = s.Locate(KindGifs, "missing.gif")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestSaveThumbnail(t *testing.T) {
	s := newTestStorage(t)

	img := image.NewRGBA(image.Rect(0, 0, 960, 540))
	for x := 0; x < 960; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	name, err := s.SaveThumbnail(&buf, "clip")
	require.NoError(t, err)
	assert.Equal(t, "clip_thumb.jpg", name)

	f, err := os.Open(filepath.Join(s.Dir(KindImages), name))
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Width)
	assert.Equal(t, 270, cfg.Height)

	_, err = s.SaveThumbnail(strings.NewReader("not an image"), "broken")
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.False(t, s.Exists(KindImages, "broken_thumb.jpg"))
}

func TestCleanupStaging(t *testing.T) {
	s := newTestStorage(t)

	old := filepath.Join(s.stagingPath(), "old.part")
	fresh := filepath.Join(s.stagingPath(), "fresh.part")
	require.NoError(t, os.WriteFile(old, nil, 0644))
	require.NoError(t, os.WriteFile(fresh, nil, 0644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := s.CleanupStaging(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}
