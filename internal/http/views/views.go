// Package views holds the server-rendered pages.
package views

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.tmpl
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 02, 2006")
	},
	"initial": initial,
}

// initial is the upper-cased first letter of s, "?" when there is none.
func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// Templates parses every page and partial.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.tmpl")
}
