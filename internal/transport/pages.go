package transport

import (
	"net/http"

	"inventory/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pages is the rendering and failure plumbing shared by the handlers
type pages struct {
	renderer *render.Renderer
	logger   *zap.Logger
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if err := p.renderer.Page(w, r, status, name, data); err != nil {
		p.logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		p.renderer.ServerError(w, r)
	}
}

// fail logs an unexpected store error and answers with the generic 500 page
func (p pages) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	p.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
	)
	p.renderer.ServerError(w, r)
}

func (p pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.NotFound(w, r)
}

// idParam parses the {id} path segment. A malformed id names no record.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
