package repository

import (
	"context"
	"sort"
	"sync"

	"inventory/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MemoryStore keeps categories and products in process memory. It backs
// the "memory" storage driver and the handler tests.
type MemoryStore struct {
	mu         sync.RWMutex
	collator   *collate.Collator
	categories map[uuid.UUID]domain.Category
	products   map[uuid.UUID]domain.Product
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collator:   collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics),
		categories: make(map[uuid.UUID]domain.Category),
		products:   make(map[uuid.UUID]domain.Product),
	}
}

// Categories returns a CategoryRepository view of the store
func (s *MemoryStore) Categories() CategoryRepository {
	return &memoryCategoryRepository{store: s}
}

// Products returns a ProductRepository view of the store
func (s *MemoryStore) Products() ProductRepository {
	return &memoryProductRepository{store: s}
}

// Ping satisfies the health checker; the store is always reachable.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// sameName must be called with mu held for writing: the collator keeps
// internal buffers.
func (s *MemoryStore) sameName(a, b string) bool {
	return s.collator.CompareString(a, b) == 0
}

func (s *MemoryStore) withCategory(p domain.Product) *domain.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}

func sortProducts(products []*domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

type memoryCategoryRepository struct {
	store *MemoryStore
}

func (r *memoryCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.categories[category.ID]
	if !ok {
		return ErrCategoryNotFound
	}

	existing.Name = category.Name
	existing.Description = category.Description
	existing.UpdatedAt = category.UpdatedAt
	r.store.categories[category.ID] = existing
	return nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	for _, p := range r.store.products {
		if p.CategoryID == id {
			return ErrCategoryHasProducts
		}
	}

	delete(r.store.categories, id)
	return nil
}

func (r *memoryCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (r *memoryCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var found *domain.Category
	for _, c := range r.store.categories {
		if !r.store.sameName(c.Name, name) {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) {
			match := c
			found = &match
		}
	}

	if found == nil {
		return nil, ErrCategoryNotFound
	}
	return found, nil
}

func (r *memoryCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		c := c
		categories = append(categories, &c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *memoryCategoryRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.categories), nil
}

type memoryProductRepository struct {
	store *MemoryStore
}

func (r *memoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[product.CategoryID]; !ok {
		return ErrCategoryNotFound
	}

	stored := *product
	stored.Category = nil
	r.store.products[product.ID] = stored
	return nil
}

func (r *memoryProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	if _, ok := r.store.categories[product.CategoryID]; !ok {
		return ErrCategoryNotFound
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.NumberInStock = product.NumberInStock
	existing.CategoryID = product.CategoryID
	existing.UpdatedAt = product.UpdatedAt
	r.store.products[product.ID] = existing
	return nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *memoryProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return r.store.withCategory(p), nil
}

func (r *memoryProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.filter(func(domain.Product) bool { return true }), nil
}

func (r *memoryProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *memoryProductRepository) filter(keep func(domain.Product) bool) []*domain.Product {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := []*domain.Product{}
	for _, p := range r.store.products {
		if keep(p) {
			products = append(products, r.store.withCategory(p))
		}
	}
	sortProducts(products)
	return products
}

func (r *memoryProductRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.products), nil
}
