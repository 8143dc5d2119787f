package server

import (
	"context"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/marketplace/internal/usecase"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugw(string, ...interface{}) {}
func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}

type fakeProductUsecase struct {
	uploadImagesFn     func(ctx context.Context, files []usecase.UploadFile) ([]models.Image, error)
	createProductFn    func(ctx context.Context, product *models.Product) (*models.Product, error)
	listShopProductsFn func(ctx context.Context, shopID string) ([]models.Product, error)
	listProductsFn     func(ctx context.Context, page mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error)
	deleteProductFn    func(ctx context.Context, id string) error
}

func (f *fakeProductUsecase) UploadImages(ctx context.Context, files []usecase.UploadFile) ([]models.Image, error) {
	return f.uploadImagesFn(ctx, files)
}

func (f *fakeProductUsecase) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return f.createProductFn(ctx, product)
}

func (f *fakeProductUsecase) ListShopProducts(ctx context.Context, shopID string) ([]models.Product, error) {
	return f.listShopProductsFn(ctx, shopID)
}

func (f *fakeProductUsecase) ListProducts(ctx context.Context, page mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error) {
	return f.listProductsFn(ctx, page)
}

func (f *fakeProductUsecase) DeleteProduct(ctx context.Context, id string) error {
	return f.deleteProductFn(ctx, id)
}

type fakeShopUsecase struct {
	getShopFn func(ctx context.Context, id string) (*models.Shop, error)
}

func (f *fakeShopUsecase) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	return f.getShopFn(ctx, id)
}

// memoryStore backs both repositories for requests that go through the real
// usecases.
type memoryStore struct {
	mu       sync.Mutex
	shops    map[string]models.Shop
	products []models.Product
}

func (s *memoryStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, *product)
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID.String() == id {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memoryStore) ListByShopID(_ context.Context, shopID string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.ShopID == shopID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *memoryStore) ListNewest(_ context.Context, _ mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]models.Product, 0, len(s.products))
	for i := len(s.products) - 1; i >= 0; i-- {
		products = append(products, s.products[i])
	}
	return &mongodb.PaginateWithTotal[models.Product]{Total: int64(len(products)), Data: products}, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID.String() == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

type memoryShops struct {
	store *memoryStore
}

func (s memoryShops) GetByID(_ context.Context, id string) (*models.Shop, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	shop, ok := s.store.shops[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &shop, nil
}

type memoryMedia struct {
	mu     sync.Mutex
	stored map[string]models.Image
}

func (m *memoryMedia) Upload(_ context.Context, name string, file io.Reader) (models.Image, error) {
	if _, err := io.ReadAll(file); err != nil {
		return models.Image{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ext := path.Ext(name)
	publicID := "products/" + strings.TrimSuffix(name, ext)
	img := models.Image{PublicID: publicID, URL: "https://res.cloudinary.com/demo/image/upload/v1712/" + publicID + ext}
	m.stored[img.PublicID] = img
	return img, nil
}

func (m *memoryMedia) DeleteImage(_ context.Context, image models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, image.PublicID)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.ProductEvent) error {
	return nil
}
