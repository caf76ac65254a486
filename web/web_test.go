package web

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "about.html", "programs.html", "methodology.html", "outcomes.html",
		"videos.html", "contact.html", "admin_login.html", "admin_dashboard.html",
		"404.html", "500.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPageRendersWithoutData(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "404.html", map[string]interface{}{"title": "Page Not Found", "path": "/x"}))
	assert.Contains(t, buf.String(), "404")
}

func TestStaticAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"css/style.css", "js/main.js"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestFormatLastSeen(t *testing.T) {
	assert.Equal(t, "never", formatLastSeen(nil))

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 01, 2024 09:30", formatLastSeen(&at))
}
