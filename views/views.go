// Package views renders the site's pages. Templates are embedded in the
// binary; each page template is parsed together with the shared layout.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// SiteConfig holds the site-wide values every template can read.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// Renderer implements echo.Renderer over html/template. Every page is parsed
// against layout.html so pages only define their title and content blocks.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := strings.TrimPrefix(entry, "templates/")
		if name == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcMap()).
			ParseFS(templateFS, "templates/layout.html", entry)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the named page template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02.01.2006")
		},
		"joinTags": func(tags []string) string {
			return strings.Join(tags, ", ")
		},
	}
}
