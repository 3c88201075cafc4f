package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory/internal/domain"
	"inventory/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCategoryInUse = errors.New("category still has products")
)

// CategoryDetail is a category together with the products filed under it
type CategoryDetail struct {
	Category *domain.Category
	Products []*domain.Product
}

// CategoryService defines the category workflows
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Detail(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	// Create returns the existing category with an equivalent name instead
	// of inserting a duplicate; created reports which case happened.
	Create(ctx context.Context, input domain.CategoryInput) (category *domain.Category, created bool, err error)
	Update(ctx context.Context, id uuid.UUID, input domain.CategoryInput) (*domain.Category, error)
	// Delete removes an unused category. When products still reference
	// it, the returned detail lists them alongside ErrCategoryInUse.
	Delete(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	now          func() time.Time
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// Detail loads the category and its products concurrently
func (s *categoryService) Detail(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	detail := &CategoryDetail{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := s.categoryRepo.FindByID(gctx, id)
		if err != nil {
			return err
		}
		detail.Category = category
		return nil
	})
	g.Go(func() error {
		products, err := s.productRepo.ListByCategory(gctx, id)
		if err != nil {
			return err
		}
		detail.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *categoryService) Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, bool, error) {
	existing, err := s.categoryRepo.FindByName(ctx, input.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, false, err
	}

	now := s.now()
	category := &domain.Category{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(category)

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, false, err
	}
	return category, true, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input domain.CategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(category)
	category.UpdatedAt = s.now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(detail.Products) > 0 {
		return detail, ErrCategoryInUse
	}

	err = s.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrCategoryHasProducts) {
		// a product was filed under the category after the check
		products, listErr := s.productRepo.ListByCategory(ctx, id)
		if listErr != nil {
			return nil, fmt.Errorf("failed to reload category products: %w", listErr)
		}
		detail.Products = products
		return detail, ErrCategoryInUse
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}
