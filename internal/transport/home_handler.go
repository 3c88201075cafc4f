package transport

import (
	"net/http"

	"inventory/internal/render"
	"inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HomeHandler serves the inventory landing page
type HomeHandler struct {
	pages
	inventoryService service.InventoryService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(inventoryService service.InventoryService, renderer *render.Renderer, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		pages:            pages{renderer: renderer, logger: logger},
		inventoryService: inventoryService,
	}
}

// RegisterRoutes mounts the landing page at the root of the inventory router
func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
}

// Index shows how many products and categories are on file
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventoryService.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to count inventory", err)
		return
	}

	h.render(w, r, http.StatusOK, "index", &render.PageData{
		Title: "Inventory management app",
		Data:  map[string]any{"Summary": summary},
	})
}
