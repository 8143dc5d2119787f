package usecase

import (
	"context"
	"io"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
)

type ProductUsecase interface {
	UploadImages(ctx context.Context, files []UploadFile) ([]models.Image, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	ListShopProducts(ctx context.Context, shopID string) ([]models.Product, error)
	ListProducts(ctx context.Context, page mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error)
	DeleteProduct(ctx context.Context, id string) error
}

type ShopUsecase interface {
	GetShop(ctx context.Context, id string) (*models.Shop, error)
}

// StructValidator validates tagged structs.
type StructValidator interface {
	Validate(i interface{}) error
}

// UploadFile is a file staged by the transport, opened once per read.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}
