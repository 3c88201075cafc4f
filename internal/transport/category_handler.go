package transport

import (
	"errors"
	"net/http"

	"inventory/internal/domain"
	"inventory/internal/middleware"
	"inventory/internal/render"
	"inventory/internal/repository"
	"inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler serves the category pages
type CategoryHandler struct {
	pages
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, renderer *render.Renderer, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		pages:           pages{renderer: renderer, logger: logger},
		categoryService: categoryService,
	}
}

// RegisterRoutes registers the category routes on a router mounted at /home
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.List)

	r.Get("/category/create", h.CreateForm)
	r.Post("/category/create", h.Create)

	r.Get("/category/{id}", h.Detail)
	r.Get("/category/{id}/update", h.UpdateForm)
	r.Post("/category/{id}/update", h.Update)
	r.Get("/category/{id}/delete", h.DeleteForm)
	r.Post("/category/{id}/delete", h.Delete)
}

// List shows every category by name
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list categories", err)
		return
	}

	h.render(w, r, http.StatusOK, "category_list", &render.PageData{
		Title: "Categories",
		Data:  map[string]any{"Categories": categories},
	})
}

// Detail shows a category and the products filed under it
func (h *CategoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	detail, err := h.categoryService.Detail(r.Context(), id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to load category", err)
		return
	}

	h.render(w, r, http.StatusOK, "category_detail", &render.PageData{
		Title: "Category Details",
		Data:  map[string]any{"Category": detail.Category, "Products": detail.Products},
	})
}

// CreateForm shows an empty category form
func (h *CategoryHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Add category", categoryForm{}, nil)
}

// Create stores a new category, or sends the client to the existing one
// when a category with an equivalent name is already on file.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := bindCategoryForm(r)
	if errs := form.validate(); errs != nil {
		h.logger.Debug("Category form rejected", zap.Int("errors", len(errs)))
		h.renderForm(w, r, "Add category", form, errs)
		return
	}

	category, created, err := h.categoryService.Create(r.Context(), form.input())
	if err != nil {
		h.fail(w, r, "Failed to create category", err)
		return
	}

	if created {
		h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	}
	http.Redirect(w, r, category.URL(), http.StatusFound)
}

// UpdateForm shows the form filled with the stored category
func (h *CategoryHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to load category", err)
		return
	}

	h.renderForm(w, r, "Edit category", categoryFormFrom(category), nil)
}

// Update replaces the name and description of the category in the path
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	form := bindCategoryForm(r)
	if errs := form.validate(); errs != nil {
		h.renderForm(w, r, "Edit category", form, errs)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, form.input())
	if errors.Is(err, repository.ErrCategoryNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to update category", err)
		return
	}

	h.logger.Info("Category updated", zap.String("category_id", category.ID.String()))
	http.Redirect(w, r, category.URL(), http.StatusFound)
}

// DeleteForm asks for confirmation, listing any products that block deletion
func (h *CategoryHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, domain.CategoriesPath, http.StatusFound)
		return
	}

	detail, err := h.categoryService.Detail(r.Context(), id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		http.Redirect(w, r, domain.CategoriesPath, http.StatusFound)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to load category", err)
		return
	}

	h.renderDelete(w, r, detail)
}

// Delete removes the category in the path unless products still use it
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, domain.CategoriesPath, http.StatusFound)
		return
	}

	detail, err := h.categoryService.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrCategoryInUse):
		h.logger.Debug("Category delete blocked",
			zap.String("category_id", id.String()),
			zap.Int("products", len(detail.Products)),
		)
		h.renderDelete(w, r, detail)
		return
	case errors.Is(err, repository.ErrCategoryNotFound):
	case err != nil:
		h.fail(w, r, "Failed to delete category", err)
		return
	default:
		h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	}

	http.Redirect(w, r, domain.CategoriesPath, http.StatusFound)
}

func (h *CategoryHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, form categoryForm, errs []middleware.ValidationError) {
	h.render(w, r, http.StatusOK, "category_form", &render.PageData{
		Title:  title,
		Data:   map[string]any{"Form": form},
		Errors: errs,
	})
}

func (h *CategoryHandler) renderDelete(w http.ResponseWriter, r *http.Request, detail *service.CategoryDetail) {
	h.render(w, r, http.StatusOK, "category_delete", &render.PageData{
		Title: "Delete category",
		Data:  map[string]any{"Category": detail.Category, "Products": detail.Products},
	})
}
