package service

import (
	"context"
	"errors"
	"time"

	"inventory/internal/domain"
	"inventory/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownCategory is returned when a product references a category
	// that does not exist.
	ErrUnknownCategory = errors.New("selected category does not exist")
)

// ProductEdit holds what the product update form needs
type ProductEdit struct {
	Product    *domain.Product
	Categories []*domain.Category
}

// ProductService defines the product workflows
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Categories(ctx context.Context) ([]*domain.Category, error)
	Edit(ctx context.Context, id uuid.UUID) (*ProductEdit, error)
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) Categories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Edit loads the product and the category choices concurrently
func (s *productService) Edit(ctx context.Context, id uuid.UUID) (*ProductEdit, error) {
	edit := &ProductEdit{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		product, err := s.productRepo.FindByID(gctx, id)
		if err != nil {
			return err
		}
		edit.Product = product
		return nil
	})
	g.Go(func() error {
		categories, err := s.categoryRepo.List(gctx)
		if err != nil {
			return err
		}
		edit.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return edit, nil
}

func (s *productService) resolveCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrUnknownCategory
	}
	return category, err
}

func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	product := &domain.Product{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	product.Category = category
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	input.Apply(product)
	product.UpdatedAt = s.now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	product.Category = category
	return product, nil
}

// Delete removes the product. A product that is already gone is not an error.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil
	}
	return err
}
