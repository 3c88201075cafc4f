package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory/internal/database"
	"inventory/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nameCollation ignores case and accents (ICU strength 1)
var nameCollation = &options.Collation{Locale: "en", Strength: 1}

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newCategoryDocument(c *domain.Category) categoryDocument {
	return categoryDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d categoryDocument) toDomain() (*domain.Category, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id %q: %w", d.ID, err)
	}
	return &domain.Category{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type productDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description"`
	Price         float64   `bson:"price"`
	NumberInStock int       `bson:"number_in_stock"`
	CategoryID    string    `bson:"category_id"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// productView is a product joined with its category by $lookup
type productView struct {
	productDocument `bson:",inline"`
	Category        categoryDocument `bson:"category"`
}

func newProductDocument(p *domain.Product) productDocument {
	return productDocument{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		NumberInStock: p.NumberInStock,
		CategoryID:    p.CategoryID.String(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (v productView) toDomain() (*domain.Product, error) {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", v.ID, err)
	}
	category, err := v.Category.toDomain()
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:            id,
		Name:          v.Name,
		Description:   v.Description,
		Price:         v.Price,
		NumberInStock: v.NumberInStock,
		CategoryID:    category.ID,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		Category:      category,
	}, nil
}

type mongoCategoryRepository struct {
	categories *mongo.Collection
	products   *mongo.Collection
}

// NewMongoCategoryRepository creates a CategoryRepository backed by MongoDB
func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{
		categories: db.Collection(database.CategoriesCollection),
		products:   db.Collection(database.ProductsCollection),
	}
}

func (r *mongoCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, err := r.categories.InsertOne(ctx, newCategoryDocument(category)); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *mongoCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.categories.UpdateOne(ctx,
		bson.M{"_id": category.ID.String()},
		bson.M{"$set": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete refuses to remove a category that products still reference.
// The check and the delete are separate operations; MongoDB has no
// foreign keys to close that window.
func (r *mongoCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	referencing, err := r.products.CountDocuments(ctx, bson.M{"category_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if referencing > 0 {
		return ErrCategoryHasProducts
	}

	result, err := r.categories.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *mongoCategoryRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Category, error) {
	var doc categoryDocument
	if err := r.categories.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return doc.toDomain()
}

func (r *mongoCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, bson.M{"name": name},
		options.FindOne().
			SetCollation(nameCollation).
			SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
}

func (r *mongoCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(docs))
	for _, doc := range docs {
		category, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *mongoCategoryRepository) Count(ctx context.Context) (int, error) {
	total, err := r.categories.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return int(total), nil
}

type mongoProductRepository struct {
	categories *mongo.Collection
	products   *mongo.Collection
}

// NewMongoProductRepository creates a ProductRepository backed by MongoDB
func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		categories: db.Collection(database.CategoriesCollection),
		products:   db.Collection(database.ProductsCollection),
	}
}

func (r *mongoProductRepository) requireCategory(ctx context.Context, id uuid.UUID) error {
	n, err := r.categories.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.requireCategory(ctx, product.CategoryID); err != nil {
		return err
	}
	if _, err := r.products.InsertOne(ctx, newProductDocument(product)); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.requireCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	doc := newProductDocument(product)
	result, err := r.products.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{
			"name":            doc.Name,
			"description":     doc.Description,
			"price":           doc.Price,
			"number_in_stock": doc.NumberInStock,
			"category_id":     doc.CategoryID,
			"updated_at":      doc.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.products.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// aggregate runs match -> $lookup category -> sort by name
func (r *mongoProductRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.CategoriesCollection,
			"localField":   "category_id",
			"foreignField": "_id",
			"as":           "category",
		}}},
		{{Key: "$unwind", Value: "$category"}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	}

	cursor, err := r.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var views []productView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(views))
	for _, view := range views {
		product, err := view.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	products, err := r.aggregate(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.aggregate(ctx, bson.M{})
}

func (r *mongoProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	return r.aggregate(ctx, bson.M{"category_id": categoryID.String()})
}

func (r *mongoProductRepository) Count(ctx context.Context) (int, error) {
	total, err := r.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(total), nil
}
