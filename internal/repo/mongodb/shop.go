package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
)

// ShopRepository is read only, shops are written by the shop service.
type ShopRepository interface {
	GetByID(ctx context.Context, id string) (*models.Shop, error)
}

type shopRepo struct {
	baseRepo[models.Shop]
}

func NewShopRepository(db *DB) ShopRepository {
	return &shopRepo{
		baseRepo: newBaseRepo[models.Shop](db.Database),
	}
}

func (r *shopRepo) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	return r.FindByID(ctx, id)
}
