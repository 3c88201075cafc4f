package service

import (
	"context"

	"inventory/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Summary holds the record counts shown on the home page
type Summary struct {
	Products   int
	Categories int
}

// InventoryService reports store-wide figures
type InventoryService interface {
	Summary(ctx context.Context) (*Summary, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) InventoryService {
	return &inventoryService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// Summary counts products and categories concurrently
func (s *inventoryService) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.productRepo.Count(gctx)
		summary.Products = n
		return err
	})
	g.Go(func() error {
		n, err := s.categoryRepo.Count(gctx)
		summary.Categories = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
