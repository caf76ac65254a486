// Package web содержит HTML-шаблоны и статические файлы сайта, встроенные в бинарник.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates разбирает все шаблоны страниц
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date":     formatDate,
		"datetime": formatDateTime,
		"lastSeen": formatLastSeen,
	}).ParseFS(templateFS, "templates/*.html")
}

// Static возвращает каталог со стилями и скриптами
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func formatDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("Jan 02, 2006 15:04")
}

func formatLastSeen(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatDateTime(*t)
}
