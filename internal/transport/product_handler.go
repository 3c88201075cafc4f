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

// ProductHandler serves the product pages
type ProductHandler struct {
	pages
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, renderer *render.Renderer, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		pages:          pages{renderer: renderer, logger: logger},
		productService: productService,
	}
}

// RegisterRoutes registers the product routes on a router mounted at /home
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)

	r.Get("/product/create", h.CreateForm)
	r.Post("/product/create", h.Create)

	r.Get("/product/{id}", h.Detail)
	r.Get("/product/{id}/update", h.UpdateForm)
	r.Post("/product/{id}/update", h.Update)
	r.Get("/product/{id}/delete", h.DeleteForm)
	r.Post("/product/{id}/delete", h.Delete)
}

// List shows every product with its category
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list products", err)
		return
	}

	h.render(w, r, http.StatusOK, "product_list", &render.PageData{
		Title: "Products in Store",
		Data:  map[string]any{"Products": products},
	})
}

// Detail shows a single product
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, "product_detail", &render.PageData{
		Title: "Product details",
		Data:  map[string]any{"Product": product},
	})
}

// CreateForm shows an empty product form with the category choices
func (h *ProductHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list categories", err)
		return
	}

	h.renderForm(w, r, "Add product", productForm{}, categories, nil)
}

// Create stores a new product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := bindProductForm(r)
	if errs := form.validate(); errs != nil {
		h.logger.Debug("Product form rejected", zap.Int("errors", len(errs)))
		h.rerenderForm(w, r, "Add product", form, errs)
		return
	}

	input, err := form.input()
	if err == nil {
		var product *domain.Product
		product, err = h.productService.Create(r.Context(), input)
		if err == nil {
			h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
			http.Redirect(w, r, product.URL(), http.StatusFound)
			return
		}
	}

	if errors.Is(err, service.ErrUnknownCategory) {
		h.rerenderForm(w, r, "Add product", form, unknownCategoryError())
		return
	}
	h.fail(w, r, "Failed to create product", err)
}

// UpdateForm shows the form filled with the stored product
func (h *ProductHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	edit, err := h.productService.Edit(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to load product", err)
		return
	}

	h.renderForm(w, r, "Edit product", productFormFrom(edit.Product), edit.Categories, nil)
}

// Update replaces every field of the product in the path
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	form := bindProductForm(r)
	if errs := form.validate(); errs != nil {
		h.rerenderForm(w, r, "Edit product", form, errs)
		return
	}

	input, err := form.input()
	if err == nil {
		var product *domain.Product
		product, err = h.productService.Update(r.Context(), id, input)
		if err == nil {
			h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
			http.Redirect(w, r, product.URL(), http.StatusFound)
			return
		}
	}

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		h.notFound(w, r)
	case errors.Is(err, service.ErrUnknownCategory):
		h.rerenderForm(w, r, "Edit product", form, unknownCategoryError())
	default:
		h.fail(w, r, "Failed to update product", err)
	}
}

// DeleteForm asks for confirmation
func (h *ProductHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, domain.ProductsPath, http.StatusFound)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		http.Redirect(w, r, domain.ProductsPath, http.StatusFound)
		return
	}
	if err != nil {
		h.fail(w, r, "Failed to load product", err)
		return
	}

	h.render(w, r, http.StatusOK, "product_delete", &render.PageData{
		Title: "Delete product",
		Data:  map[string]any{"Product": product},
	})
}

// Delete removes the product in the path. Deleting a missing product
// still ends on the product list.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if id, ok := idParam(r); ok {
		if err := h.productService.Delete(r.Context(), id); err != nil {
			h.fail(w, r, "Failed to delete product", err)
			return
		}
		h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	}

	http.Redirect(w, r, domain.ProductsPath, http.StatusFound)
}

// lookup loads the product named in the path, answering 404 when there is none
func (h *ProductHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return nil, false
	}

	product, err := h.productService.Get(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		h.notFound(w, r)
		return nil, false
	}
	if err != nil {
		h.fail(w, r, "Failed to load product", err)
		return nil, false
	}
	return product, true
}

// rerenderForm shows a rejected submission again with fresh category choices
func (h *ProductHandler) rerenderForm(w http.ResponseWriter, r *http.Request, title string, form productForm, errs []middleware.ValidationError) {
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list categories", err)
		return
	}
	h.renderForm(w, r, title, form, categories, errs)
}

func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, form productForm, categories []*domain.Category, errs []middleware.ValidationError) {
	h.render(w, r, http.StatusOK, "product_form", &render.PageData{
		Title:  title,
		Data:   map[string]any{"Form": form, "Categories": categories},
		Errors: errs,
	})
}
