package service

import (
	"context"
	"errors"
	"testing"

	"inventory/internal/domain"
	"inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hammerInput(categoryID uuid.UUID) domain.ProductInput {
	return domain.ProductInput{
		Name:          "Hammer",
		Price:         9.99,
		Description:   "Steel hammer",
		NumberInStock: 5,
		CategoryID:    categoryID,
	}
}

func TestProductCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	categories, products, _ := newServices()

	tools, _, err := categories.Create(ctx, domain.CategoryInput{Name: "Tools", Description: "Hand tools"})
	require.NoError(t, err)

	created, err := products.Create(ctx, hammerInput(tools.ID))
	require.NoError(t, err)
	assert.Equal(t, "/home/product/"+created.ID.String(), created.URL())

	fetched, err := products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", fetched.Name)
	assert.Equal(t, 9.99, fetched.Price)
	assert.Equal(t, "Steel hammer", fetched.Description)
	assert.Equal(t, 5, fetched.NumberInStock)
	require.NotNil(t, fetched.Category)
	assert.Equal(t, "Tools", fetched.Category.Name)

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tools.ID, list[0].Category.ID)
}

func TestProductCreateRejectsUnknownCategory(t *testing.T) {
	_, products, _ := newServices()

	_, err := products.Create(context.Background(), hammerInput(uuid.New()))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestProductUpdateWritesStockCount(t *testing.T) {
	ctx := context.Background()
	categories, products, _ := newServices()

	tools, _, err := categories.Create(ctx, domain.CategoryInput{Name: "Tools", Description: "Hand tools"})
	require.NoError(t, err)
	product, err := products.Create(ctx, hammerInput(tools.ID))
	require.NoError(t, err)

	input := hammerInput(tools.ID)
	input.NumberInStock = 42
	input.Price = 12.5
	updated, err := products.Update(ctx, product.ID, input)
	require.NoError(t, err)
	assert.Equal(t, product.ID, updated.ID)

	stored, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, stored.NumberInStock)
	assert.Equal(t, 12.5, stored.Price)

	_, err = products.Update(ctx, uuid.New(), input)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = products.Update(ctx, product.ID, hammerInput(uuid.New()))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestProductEditLoadsCategories(t *testing.T) {
	ctx := context.Background()
	categories, products, _ := newServices()

	tools, _, err := categories.Create(ctx, domain.CategoryInput{Name: "Tools", Description: "Hand tools"})
	require.NoError(t, err)
	_, _, err = categories.Create(ctx, domain.CategoryInput{Name: "Garden", Description: "Outdoor"})
	require.NoError(t, err)
	product, err := products.Create(ctx, hammerInput(tools.ID))
	require.NoError(t, err)

	edit, err := products.Edit(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, edit.Product.ID)
	require.Len(t, edit.Categories, 2)
	assert.Equal(t, "Garden", edit.Categories[0].Name)

	_, err = products.Edit(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestProductDeleteIsUnconditional(t *testing.T) {
	ctx := context.Background()
	categories, products, _ := newServices()

	tools, _, err := categories.Create(ctx, domain.CategoryInput{Name: "Tools", Description: "Hand tools"})
	require.NoError(t, err)
	product, err := products.Create(ctx, hammerInput(tools.ID))
	require.NoError(t, err)

	require.NoError(t, products.Delete(ctx, product.ID))
	require.NoError(t, products.Delete(ctx, product.ID))

	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInventorySummary(t *testing.T) {
	ctx := context.Background()
	categories, products, inventory := newServices()

	tools, _, err := categories.Create(ctx, domain.CategoryInput{Name: "Tools", Description: "Hand tools"})
	require.NoError(t, err)
	_, _, err = categories.Create(ctx, domain.CategoryInput{Name: "Garden", Description: "Outdoor"})
	require.NoError(t, err)
	_, err = products.Create(ctx, hammerInput(tools.ID))
	require.NoError(t, err)

	summary, err := inventory.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 2, summary.Categories)
}

func TestInventorySummaryPropagatesFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	boom := errors.New("store unavailable")
	inventory := NewInventoryService(&failingProductRepository{err: boom}, store.Categories())

	_, err := inventory.Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
