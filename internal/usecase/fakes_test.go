package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func imageFile(name string) UploadFile {
	return UploadFile{
		Name: name,
		Size: int64(len(pngHeader)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(pngHeader)), nil
		},
	}
}

func textFile(name string) UploadFile {
	body := []byte("just some plain text, not a picture")
	return UploadFile{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		},
	}
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]models.Product
	order    []string

	createFn func(ctx context.Context, product *models.Product) error

	// deleteErr fails the next Delete only.
	deleteErr error
	deleted   []string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]models.Product{}}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if r.createFn != nil {
		if err := r.createFn(ctx, product); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID.String()] = *product
	r.order = append(r.order, product.ID.String())
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) ListByShopID(_ context.Context, shopID string) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := []models.Product{}
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && p.ShopID == shopID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) ListNewest(_ context.Context, page mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := []models.Product{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.products[r.order[i]]; ok {
			products = append(products, p)
		}
	}
	total := int64(len(products))
	if page.Skip > 0 {
		products = products[min(page.Skip, total):]
	}
	if page.Limit > 0 && int64(len(products)) > page.Limit {
		products = products[:page.Limit]
	}
	return &mongodb.PaginateWithTotal[models.Product]{Total: total, Data: products}, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr; err != nil {
		r.deleteErr = nil
		return err
	}
	if _, ok := r.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.products, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeShopRepo struct {
	shops map[string]models.Shop
	err   error
}

func (r *fakeShopRepo) GetByID(_ context.Context, id string) (*models.Shop, error) {
	if r.err != nil {
		return nil, r.err
	}
	shop, ok := r.shops[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &shop, nil
}

type fakeMediaHost struct {
	mu       sync.Mutex
	uploadFn func(name string) (models.Image, error)
	deleteFn func(image models.Image) error

	uploaded  []string
	destroyed []models.Image
}

func (m *fakeMediaHost) Upload(_ context.Context, name string, file io.Reader) (models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.ReadAll(file); err != nil {
		return models.Image{}, err
	}
	m.uploaded = append(m.uploaded, name)
	if m.uploadFn != nil {
		return m.uploadFn(name)
	}
	return models.Image{PublicID: "products/" + name, URL: "https://cdn.test/products/" + name}, nil
}

func (m *fakeMediaHost) DeleteImage(_ context.Context, image models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, image)
	if m.deleteFn != nil {
		return m.deleteFn(image)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.ProductEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.ProductEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeValidator struct {
	err error
}

func (v fakeValidator) Validate(interface{}) error {
	return v.err
}
