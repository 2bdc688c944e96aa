// Package web embeds the HTML templates.
package web

import (
	"embed"
	"html/template"

	"paper-trader/money"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page with its shared header and footer.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"usd": func(c money.Cents) string { return c.Display() },
	}).ParseFS(files, "templates/*.html")
}
