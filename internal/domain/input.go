package domain

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryInput carries the validated fields of a category form
type CategoryInput struct {
	Name        string
	Description string
}

// Apply copies the input onto a category record
func (in CategoryInput) Apply(c *Category) {
	c.Name = in.Name
	c.Description = in.Description
}

// ProductInput carries the validated fields of a product form
type ProductInput struct {
	Name          string
	Price         float64
	Description   string
	NumberInStock int
	CategoryID    uuid.UUID
}

// Apply copies the input onto a product record, replacing every field
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.NumberInStock = in.NumberInStock
	p.CategoryID = in.CategoryID
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

var htmlUnescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&#x27;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&#x2F;", "/",
	"&#x5C;", `\`,
	"&#96;", "`",
	"&amp;", "&",
)

// Sanitize trims surrounding whitespace and HTML-escapes the value.
// Stored text fields always go through Sanitize.
func Sanitize(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

// Unsanitize reverses the escaping applied by Sanitize for display.
func Unsanitize(s string) string {
	return htmlUnescaper.Replace(s)
}
