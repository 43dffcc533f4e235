// Package view renders the portal's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/service"
)

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageLogin    = "login"
	PageRegister = "register"
	PageManager  = "manager"
	PageEmployee = "employee"
	PageLoading  = "loading"
	PageError    = "error"
)

var pages = []string{PageHome, PageLogin, PageRegister, PageManager, PageEmployee, PageLoading, PageError}

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *domain.User
	Notices []service.Notice
	Body    any
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

var funcs = template.FuncMap{
	"date": func(ts domain.Timestamp) string {
		if ts.IsZero() {
			return ""
		}
		return ts.Local().Format("Jan 2, 2006")
	},
	"dashboard": func(r domain.Role) string { return r.DashboardPath() },
	"sentiments": func() []domain.Sentiment {
		return domain.Sentiments
	},
}

// New parses every page. It fails on the first broken template.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
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

// Render executes the layout for page name. data must be a Page or *Page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
