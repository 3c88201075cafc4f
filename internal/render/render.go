// Package render executes the embedded HTML templates. Every page is parsed
// together with the shared layout and rendered into a buffer first, so a
// template failure never leaves a half-written response behind.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"inventory/internal/domain"
	"inventory/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// PageData holds everything passed to a template.
type PageData struct {
	Title     string
	CSRFToken string
	Data      map[string]any
	Errors    []middleware.ValidationError
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// Stored text is HTML-escaped once on input; undo that so the
		// template engine's own escaping is the only one applied.
		"unescape": domain.Unsanitize,
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"selected": func(current, option string) bool {
			return current != "" && current == option
		},
	}
}

// New parses every page template from the embedded filesystem.
func New() (*Renderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New(layoutFile).Funcs(Funcs()).ParseFS(
			templateFS, "templates/"+layoutFile, "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Has reports whether a page template was parsed
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders the named page with the given status code. The CSRF token
// is taken from the request context.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// NotFound renders the 404 page
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	err := rn.Page(w, r, http.StatusNotFound, "not_found", &PageData{Title: "Not found"})
	if err != nil {
		middleware.RespondWithError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
	}
}

// ServerError renders the generic 500 page. Details stay in the logs.
func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request) {
	err := rn.Page(w, r, http.StatusInternalServerError, "error", &PageData{Title: "Something went wrong"})
	if err != nil {
		middleware.RespondWithError(w, r, http.StatusInternalServerError, "Something went wrong while handling the request.")
	}
}
