package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByShopID(ctx context.Context, shopID string) ([]models.Product, error)
	ListNewest(ctx context.Context, page Page) (*PaginateWithTotal[models.Product], error)
	Delete(ctx context.Context, id string) error
}

// Page selects a window of a listing. A zero Limit means no limit.
type Page struct {
	Limit int64
	Skip  int64
}

type productRepo struct {
	baseRepo[models.Product]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		baseRepo: newBaseRepo[models.Product](db.Database),
	}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = models.NewObjectID()
	}
	if _, err := r.Insert(ctx, *product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepo) ListByShopID(ctx context.Context, shopID string) ([]models.Product, error) {
	products, err := r.Find(ctx, bson.M{"shopId": shopID})
	if err != nil {
		return nil, fmt.Errorf("failed to list products by shop: %w", err)
	}
	return products, nil
}

func (r *productRepo) ListNewest(ctx context.Context, page Page) (*PaginateWithTotal[models.Product], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if page.Limit > 0 {
		return r.PaginateWithTotal(ctx, bson.M{}, page.Limit, page.Skip, opts)
	}

	products, err := r.Find(ctx, bson.M{}, opts.SetSkip(page.Skip))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	total := int64(len(products))
	if page.Skip > 0 {
		if total, err = r.Count(ctx, bson.M{}); err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
	}
	return &PaginateWithTotal[models.Product]{Total: total, Data: products}, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}
