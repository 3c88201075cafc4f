package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// URL returns the canonical page of the category
func (c *Category) URL() string {
	return CategoryURL(c.ID)
}

// Product represents an item held in stock
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	NumberInStock int       `json:"number_in_stock" db:"number_in_stock"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Category is populated by queries that join the referenced category.
	Category *Category `json:"category,omitempty" db:"-"`
}

// URL returns the canonical page of the product
func (p *Product) URL() string {
	return ProductURL(p.ID)
}

const (
	// BasePath is where the inventory routes are mounted
	BasePath = "/home"

	CategoriesPath = BasePath + "/categories"
	ProductsPath   = BasePath + "/products"
)

// CategoryURL builds the canonical category path for an id
func CategoryURL(id uuid.UUID) string {
	return BasePath + "/category/" + id.String()
}

// ProductURL builds the canonical product path for an id
func ProductURL(id uuid.UUID) string {
	return BasePath + "/product/" + id.String()
}
