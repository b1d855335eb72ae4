package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/* static/*
var contentFS embed.FS

// StaticFS returns the page script and stylesheet served under /static/.
func StaticFS() (fs.FS, error) {
	static, err := fs.Sub(contentFS, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded static assets: %w", err)
	}
	return static, nil
}

// TemplateRenderer renders the embedded page templates for c.Render.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		// Cell CSS is assembled from parsed colors and fixed keywords only.
		"cellStyle": func(css string) template.CSS { return template.CSS(css) },
		"rowNumber": func(row int) int { return row + 1 },
		"join":      strings.Join,
	}).ParseFS(contentFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
