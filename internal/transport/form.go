package transport

import (
	"net/http"
	"strconv"

	"inventory/internal/domain"
	"inventory/internal/middleware"
	"inventory/internal/service"

	"github.com/google/uuid"
)

var categoryMessages = map[string]string{
	"name":        "Name field cannot be empty",
	"description": "Description field cannot be empty",
}

var productMessages = map[string]string{
	"name":          "Name field cannot be empty",
	"description":   "Description field cannot be empty",
	"price":         "Price must be a number of at least 1",
	"numberInStock": "Needs to be filled out and be a number greater than 0",
	"category":      "Category must be set",
}

const unknownCategoryMessage = "Selected category does not exist"

// categoryForm holds the submitted category fields, trimmed and escaped
type categoryForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
}

func bindCategoryForm(r *http.Request) categoryForm {
	return categoryForm{
		Name:        domain.Sanitize(r.PostFormValue("name")),
		Description: domain.Sanitize(r.PostFormValue("description")),
	}
}

func categoryFormFrom(c *domain.Category) categoryForm {
	return categoryForm{Name: c.Name, Description: c.Description}
}

// validate returns one error per violated field, or nil
func (f *categoryForm) validate() []middleware.ValidationError {
	if err := middleware.ValidateRequest(f); err != nil {
		return middleware.FormatValidationErrors(err, categoryMessages)
	}
	return nil
}

func (f categoryForm) input() domain.CategoryInput {
	return domain.CategoryInput{Name: f.Name, Description: f.Description}
}

// productForm holds the submitted product fields as text so a failed
// submission can be shown back exactly as entered.
type productForm struct {
	Name          string `form:"name" validate:"required"`
	Price         string `form:"price" validate:"floatmin=1"`
	Description   string `form:"description" validate:"required"`
	NumberInStock string `form:"numberInStock" validate:"intmin=1"`
	Category      string `form:"category" validate:"required"`
}

func bindProductForm(r *http.Request) productForm {
	return productForm{
		Name:          domain.Sanitize(r.PostFormValue("name")),
		Price:         domain.Sanitize(r.PostFormValue("price")),
		Description:   domain.Sanitize(r.PostFormValue("description")),
		NumberInStock: domain.Sanitize(r.PostFormValue("numberInStock")),
		Category:      domain.Sanitize(r.PostFormValue("category")),
	}
}

func productFormFrom(p *domain.Product) productForm {
	return productForm{
		Name:          p.Name,
		Price:         strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description:   p.Description,
		NumberInStock: strconv.Itoa(p.NumberInStock),
		Category:      p.CategoryID.String(),
	}
}

func (f *productForm) validate() []middleware.ValidationError {
	if err := middleware.ValidateRequest(f); err != nil {
		return middleware.FormatValidationErrors(err, productMessages)
	}
	return nil
}

// input converts a validated form. A category value that is not an id
// cannot name an existing category.
func (f productForm) input() (domain.ProductInput, error) {
	categoryID, err := uuid.Parse(f.Category)
	if err != nil {
		return domain.ProductInput{}, service.ErrUnknownCategory
	}

	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return domain.ProductInput{}, err
	}
	stock, err := strconv.ParseInt(f.NumberInStock, 10, 32)
	if err != nil {
		return domain.ProductInput{}, err
	}

	return domain.ProductInput{
		Name:          f.Name,
		Price:         price,
		Description:   f.Description,
		NumberInStock: int(stock),
		CategoryID:    categoryID,
	}, nil
}

func unknownCategoryError() []middleware.ValidationError {
	return []middleware.ValidationError{{Field: "category", Message: unknownCategoryMessage}}
}
