package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
)

type shopUsecase struct {
	shopRepo mongodb.ShopRepository
}

func NewShopUsecase(shopRepo mongodb.ShopRepository) ShopUsecase {
	return &shopUsecase{
		shopRepo: shopRepo,
	}
}

func (uc *shopUsecase) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	shop, err := uc.shopRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrShopInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}
