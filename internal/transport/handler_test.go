package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inventory/internal/domain"
	"inventory/internal/render"
	"inventory/internal/repository"
	"inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	router     http.Handler
	store      *repository.MemoryStore
	categories service.CategoryService
	products   service.ProductService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	categories := service.NewCategoryService(store.Categories(), store.Products())
	products := service.NewProductService(store.Products(), store.Categories())
	inventory := service.NewInventoryService(store.Products(), store.Categories())

	logger := zap.NewNop()
	router := chi.NewRouter()
	router.Route(domain.BasePath, func(r chi.Router) {
		NewHomeHandler(inventory, renderer, logger).RegisterRoutes(r)
		NewCategoryHandler(categories, renderer, logger).RegisterRoutes(r)
		NewProductHandler(products, renderer, logger).RegisterRoutes(r)
	})

	return &testApp{router: router, store: store, categories: categories, products: products}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category, _, err := a.categories.Create(context.Background(), domain.CategoryInput{Name: name, Description: name + " things"})
	require.NoError(t, err)
	return category
}

func (a *testApp) seedProduct(t *testing.T, name string, categoryID uuid.UUID) *domain.Product {
	t.Helper()
	product, err := a.products.Create(context.Background(), domain.ProductInput{
		Name: name, Price: 9.99, Description: "A " + name, NumberInStock: 5, CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}

func hammerForm(categoryID string) url.Values {
	return url.Values{
		"name":          {"Hammer"},
		"price":         {"9.99"},
		"description":   {"Steel hammer"},
		"numberInStock": {"5"},
		"category":      {categoryID},
	}
}

func TestToolsAndHammerScenario(t *testing.T) {
	app := newTestApp(t)

	// create the category
	w := app.post("/home/category/create", url.Values{"name": {"Tools"}, "description": {"Hand tools"}})
	require.Equal(t, http.StatusFound, w.Code)
	toolsURL := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(toolsURL, "/home/category/"))
	toolsID := strings.TrimPrefix(toolsURL, "/home/category/")

	// a second create with an equivalent name lands on the same record
	w = app.post("/home/category/create", url.Values{"name": {"tools"}, "description": {"Duplicate"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, toolsURL, w.Header().Get("Location"))

	// create a product in it
	w = app.post("/home/product/create", hammerForm(toolsID))
	require.Equal(t, http.StatusFound, w.Code)
	hammerURL := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(hammerURL, "/home/product/"))

	w = app.get(hammerURL)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hammer")
	assert.Contains(t, w.Body.String(), "9.99")
	assert.Contains(t, w.Body.String(), "Tools")

	// the category cannot be deleted while the hammer is filed under it
	w = app.post(toolsURL+"/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Delete the following products")
	assert.Contains(t, w.Body.String(), hammerURL)

	_, err := app.categories.Get(context.Background(), uuid.MustParse(toolsID))
	require.NoError(t, err)

	// remove the product, then the category
	w = app.post(hammerURL+"/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/products", w.Header().Get("Location"))

	w = app.post(toolsURL+"/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/categories", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, app.get(toolsURL).Code)
	assert.Equal(t, http.StatusNotFound, app.get(hammerURL).Code)
}

func TestCategoryCreateRejectsBlankFields(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/home/category/create", url.Values{"name": {"   "}, "description": {""}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Name field cannot be empty")
	assert.Contains(t, body, "Description field cannot be empty")

	count, err := app.store.Categories().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCategoryCreateKeepsSubmittedValuesOnError(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/home/category/create", url.Values{"name": {"Nuts & Bolts"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Nuts &amp; Bolts"`)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "cannot be empty"))
}

func TestCategoryNameIsStoredEscaped(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/home/category/create", url.Values{"name": {"  <b>Tools</b> "}, "description": {"x"}})
	require.Equal(t, http.StatusFound, w.Code)

	categories, err := app.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "&lt;b&gt;Tools&lt;&#x2F;b&gt;", categories[0].Name)

	body := app.get("/home/categories").Body.String()
	assert.Contains(t, body, "&lt;b&gt;Tools&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Tools</b>")
}

func TestCategoryLongEscapedNameIsAccepted(t *testing.T) {
	app := newTestApp(t)
	name := strings.Repeat("/", 101)

	w := app.post("/home/category/create", url.Values{"name": {name}, "description": {"Slashes"}})
	require.Equal(t, http.StatusFound, w.Code)

	// stored escaped, six times the typed length
	categories, err := app.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, strings.Repeat("&#x2F;", 101), categories[0].Name)

	body := app.get(w.Header().Get("Location")).Body.String()
	assert.Contains(t, body, name)
	assert.NotContains(t, body, "&amp;#x2F;")
}

func TestCategoryPagesNotFound(t *testing.T) {
	app := newTestApp(t)
	missing := "/home/category/" + uuid.NewString()

	assert.Equal(t, http.StatusNotFound, app.get(missing).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/home/category/not-an-id").Code)
	assert.Equal(t, http.StatusNotFound, app.get(missing+"/update").Code)
	assert.Equal(t, http.StatusNotFound, app.post(missing+"/update", url.Values{"name": {"a"}, "description": {"b"}}).Code)

	w := app.get(missing + "/delete")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/categories", w.Header().Get("Location"))

	w = app.post(missing+"/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/categories", w.Header().Get("Location"))
}

func TestCategoryUpdate(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")

	w := app.get(tools.URL() + "/update")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Tools"`)

	w = app.post(tools.URL()+"/update", url.Values{"name": {"Hand tools"}, "description": {"Small tools"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, tools.URL(), w.Header().Get("Location"))

	updated, err := app.categories.Get(context.Background(), tools.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hand tools", updated.Name)
	assert.Equal(t, "Small tools", updated.Description)

	w = app.post(tools.URL()+"/update", url.Values{"name": {""}, "description": {"x"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Name field cannot be empty")
}

func TestCategoryListAndDetail(t *testing.T) {
	app := newTestApp(t)
	garden := app.seedCategory(t, "Garden")
	tools := app.seedCategory(t, "Tools")
	app.seedProduct(t, "Saw", tools.ID)
	app.seedProduct(t, "Hammer", tools.ID)

	body := app.get("/home/categories").Body.String()
	assert.Less(t, strings.Index(body, "Garden"), strings.Index(body, "Tools"))

	w := app.get(tools.URL())
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Less(t, strings.Index(body, "Hammer"), strings.Index(body, "Saw"))

	body = app.get(garden.URL()).Body.String()
	assert.Contains(t, body, "This category has no products")
}

func TestCategoryDeleteConfirmListsBlockingProducts(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	garden := app.seedCategory(t, "Garden")
	app.seedProduct(t, "Hammer", tools.ID)

	body := app.get(tools.URL() + "/delete").Body.String()
	assert.Contains(t, body, "Delete the following products")
	assert.NotContains(t, body, `<form method="POST">`)

	body = app.get(garden.URL() + "/delete").Body.String()
	assert.Contains(t, body, "Do you really want to delete this category?")
}

func TestProductCreateValidation(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"blank name", url.Values{"name": {" "}}, "Name field cannot be empty"},
		{"blank description", url.Values{"description": {""}}, "Description field cannot be empty"},
		{"price below one", url.Values{"price": {"0.5"}}, "Price must be a number of at least 1"},
		{"price not a number", url.Values{"price": {"cheap"}}, "Price must be a number of at least 1"},
		{"stock zero", url.Values{"numberInStock": {"0"}}, "Needs to be filled out and be a number greater than 0"},
		{"stock fractional", url.Values{"numberInStock": {"1.5"}}, "Needs to be filled out and be a number greater than 0"},
		{"stock beyond int32", url.Values{"numberInStock": {"3000000000"}}, "Needs to be filled out and be a number greater than 0"},
		{"no category", url.Values{"category": {""}}, "Category must be set"},
		{"unknown category", url.Values{"category": {uuid.NewString()}}, "Selected category does not exist"},
		{"malformed category", url.Values{"category": {"tools"}}, "Selected category does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := hammerForm(tools.ID.String())
			for k, v := range tt.form {
				form[k] = v
			}

			w := app.post("/home/product/create", form)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			// category choices are offered again
			assert.Contains(t, w.Body.String(), tools.ID.String())
		})
	}

	count, err := app.store.Products().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProductCreateAcceptsExponentPrice(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")

	form := hammerForm(tools.ID.String())
	form.Set("price", "1e2")
	w := app.post("/home/product/create", form)
	require.Equal(t, http.StatusFound, w.Code)

	id := uuid.MustParse(strings.TrimPrefix(w.Header().Get("Location"), "/home/product/"))
	product, err := app.products.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 100.0, product.Price)
}

func TestProductUpdateValidation(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	garden := app.seedCategory(t, "Garden")
	hammer := app.seedProduct(t, "Hammer", tools.ID)

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"blank name", url.Values{"name": {""}}, "Name field cannot be empty"},
		{"blank description", url.Values{"description": {" "}}, "Description field cannot be empty"},
		{"price below one", url.Values{"price": {"0.99"}}, "Price must be a number of at least 1"},
		{"stock zero", url.Values{"numberInStock": {"0"}}, "Needs to be filled out and be a number greater than 0"},
		{"stock beyond int32", url.Values{"numberInStock": {"3000000000"}}, "Needs to be filled out and be a number greater than 0"},
		{"no category", url.Values{"category": {""}}, "Category must be set"},
		{"unknown category", url.Values{"category": {uuid.NewString()}}, "Selected category does not exist"},
		{"malformed category", url.Values{"category": {"garden"}}, "Selected category does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{
				"name":          {"Trowel"},
				"price":         {"4.5"},
				"description":   {"Garden trowel"},
				"numberInStock": {"12"},
				"category":      {garden.ID.String()},
			}
			for k, v := range tt.form {
				form[k] = v
			}

			w := app.post(hammer.URL()+"/update", form)

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tt.message)
			assert.Contains(t, body, "Edit product")
			// both category choices are offered again
			assert.Contains(t, body, tools.ID.String())
			assert.Contains(t, body, garden.ID.String())

			stored, err := app.products.Get(context.Background(), hammer.ID)
			require.NoError(t, err)
			assert.Equal(t, "Hammer", stored.Name)
			assert.Equal(t, 9.99, stored.Price)
			assert.Equal(t, "A Hammer", stored.Description)
			assert.Equal(t, 5, stored.NumberInStock)
			assert.Equal(t, tools.ID, stored.CategoryID)
		})
	}
}

func TestProductCreateReportsEveryViolatedField(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/home/product/create", url.Values{})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, message := range productMessages {
		assert.Equal(t, 1, strings.Count(body, message), message)
	}
}

func TestProductUpdateReplacesAllFields(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	garden := app.seedCategory(t, "Garden")
	hammer := app.seedProduct(t, "Hammer", tools.ID)

	w := app.get(hammer.URL() + "/update")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="`+tools.ID.String()+`" selected>`)

	w = app.post(hammer.URL()+"/update", url.Values{
		"name":          {"Trowel"},
		"price":         {"4.5"},
		"description":   {"Garden trowel"},
		"numberInStock": {"12"},
		"category":      {garden.ID.String()},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, hammer.URL(), w.Header().Get("Location"))

	updated, err := app.products.Get(context.Background(), hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trowel", updated.Name)
	assert.Equal(t, 4.5, updated.Price)
	assert.Equal(t, "Garden trowel", updated.Description)
	assert.Equal(t, 12, updated.NumberInStock)
	assert.Equal(t, garden.ID, updated.CategoryID)
}

func TestProductPagesNotFound(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	missing := "/home/product/" + uuid.NewString()

	assert.Equal(t, http.StatusNotFound, app.get(missing).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/home/product/123").Code)
	assert.Equal(t, http.StatusNotFound, app.get(missing+"/update").Code)
	assert.Equal(t, http.StatusNotFound, app.post(missing+"/update", hammerForm(tools.ID.String())).Code)

	w := app.get(missing + "/delete")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/products", w.Header().Get("Location"))

	w = app.post(missing+"/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/products", w.Header().Get("Location"))
}

func TestProductListShowsCategories(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	app.seedProduct(t, "Wrench", tools.ID)
	app.seedProduct(t, "Hammer", tools.ID)

	w := app.get("/home/products")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "Hammer"), strings.Index(body, "Wrench"))
	assert.Contains(t, body, "(Tools)")
}

func TestHomeShowsCounts(t *testing.T) {
	app := newTestApp(t)
	tools := app.seedCategory(t, "Tools")
	app.seedCategory(t, "Garden")
	app.seedCategory(t, "Kitchen")
	app.seedProduct(t, "Hammer", tools.ID)

	for _, path := range []string{"/home", "/home/"} {
		w := app.get(path)
		require.Equal(t, http.StatusOK, w.Code, path)
		body := w.Body.String()
		assert.Contains(t, body, "<strong>Products:</strong> 1")
		assert.Contains(t, body, "<strong>Categories:</strong> 3")
	}
}
