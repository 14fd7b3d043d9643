// Package view renders the HTML pages of the web client.  Every page is a
// template under templates/ that defines "content" and is wrapped by the
// shared layout.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/model"
	"github.com/iliyamo/restroom-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data handed to every template.
type Page struct {
	Title   string
	Session session.State
	// Error is shown in place of the page content when set.
	Error string
	// Notice is a one-line success message.
	Notice string
	Data   any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"rating": func(r model.Restroom) string {
		if !r.Rated() {
			return "No rating"
		}
		return fmt.Sprintf("%.1f", *r.AvgRating)
	},
	"stalls": func(n int) string {
		if n == 1 {
			return "1 stall"
		}
		return fmt.Sprintf("%d stalls", n)
	},
	"stars": func(n int) string {
		if n < 0 {
			n = 0
		}
		if n > model.MaxRating {
			n = model.MaxRating
		}
		return strings.Repeat("★", n) + strings.Repeat("☆", model.MaxRating-n)
	},
	"field": func(u model.UserRecord, key string) string {
		if u == nil {
			return ""
		}
		v, ok := u[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	},
	"ratings": func() []int {
		out := make([]int, 0, model.MaxRating)
		for i := model.MaxRating; i >= model.MinRating; i-- {
			out = append(out, i)
		}
		return out
	},
}

// New parses the layout together with each page template.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is New that panics on error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
