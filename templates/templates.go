// Package templates holds the HTML pages, embedded into the binary
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"yatube/utils"
)

//go:embed *.tmpl
var files embed.FS

var months = [...]string{"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря"}

// Funcs are available in every page
var Funcs = template.FuncMap{
	"date":          formatDate,
	"truncatewords": truncateWords,
	"truncate":      utils.Truncate,
	"selected": func(current string, id uint64) bool {
		return current != "" && current == utils.FormatID(id)
	},
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " …"
}

// Parse loads all pages. Page names are the file names, e.g. "index.tmpl".
func Parse() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "*.tmpl")
}
