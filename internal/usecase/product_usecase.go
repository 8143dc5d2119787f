package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/multierr"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/events"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/media"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
)

// sniffLen is how much of a file is read to detect its content type.
const sniffLen = 3072

type productUsecase struct {
	productRepo mongodb.ProductRepository
	shopRepo    mongodb.ShopRepository
	mediaHost   media.Client
	publisher   events.Publisher
	validator   StructValidator
	maxFiles    int
	now         func() time.Time
}

func NewProductUsecase(
	cfg *config.Config,
	productRepo mongodb.ProductRepository,
	shopRepo mongodb.ShopRepository,
	mediaHost media.Client,
	publisher events.Publisher,
	validator StructValidator,
) ProductUsecase {
	return &productUsecase{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		mediaHost:   mediaHost,
		publisher:   publisher,
		validator:   validator,
		maxFiles:    cfg.Upload.MaxFiles,
		now:         time.Now,
	}
}

// UploadImages uploads files one by one in order. When an upload fails the
// images stored so far are destroyed and nothing is returned.
func (uc *productUsecase) UploadImages(ctx context.Context, files []UploadFile) ([]models.Image, error) {
	if len(files) == 0 {
		return nil, models.ErrNoFilesUploaded
	}
	if uc.maxFiles > 0 && len(files) > uc.maxFiles {
		return nil, models.InvalidArgument(fmt.Errorf("too many files: got %d, at most %d allowed", len(files), uc.maxFiles))
	}
	for _, file := range files {
		if err := checkImage(file); err != nil {
			return nil, err
		}
	}

	images := make([]models.Image, 0, len(files))
	for i, file := range files {
		img, err := uc.uploadOne(ctx, file)
		if err != nil {
			log.Errorw(ctx, "Failed to upload image", "index", i, "file", file.Name, "error", err)
			uc.discardImages(ctx, images)
			return nil, fmt.Errorf("upload %s: %w: %w", file.Name, models.ErrImageUploadFails, err)
		}
		images = append(images, img)
	}

	return images, nil
}

func (uc *productUsecase) uploadOne(ctx context.Context, file UploadFile) (models.Image, error) {
	rc, err := file.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	return uc.mediaHost.Upload(ctx, file.Name, rc)
}

// discardImages removes images of an aborted batch. Failures only get logged,
// the caller already reports the batch as failed.
func (uc *productUsecase) discardImages(ctx context.Context, images []models.Image) {
	for _, img := range images {
		if err := uc.mediaHost.DeleteImage(ctx, img); err != nil {
			log.Errorw(ctx, "Failed to discard uploaded image", "public_id", img.PublicID, "error", err)
		}
	}
}

func checkImage(file UploadFile) error {
	if file.Size <= 0 {
		return models.InvalidArgument(fmt.Errorf("%s is empty", file.Name))
	}
	rc, err := file.Open()
	if err != nil {
		return models.InvalidArgument(fmt.Errorf("open %s: %w", file.Name, err))
	}
	defer rc.Close()

	head, err := io.ReadAll(io.LimitReader(rc, sniffLen))
	if err != nil {
		return models.InvalidArgument(fmt.Errorf("read %s: %w", file.Name, err))
	}
	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return models.InvalidArgument(fmt.Errorf("%s is not an image (%s)", file.Name, mtype.String()))
	}
	return nil
}

func (uc *productUsecase) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	shop, err := uc.shopRepo.GetByID(ctx, product.ShopID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrShopInvalid
	}
	if err != nil {
		return nil, models.InvalidArgument(fmt.Errorf("failed to get shop: %w", err))
	}

	product.ID = models.NewObjectID()
	product.Shop = shop
	product.CreatedAt = uc.now().UTC()
	if product.Images == nil {
		product.Images = []models.Image{}
	}

	if err := uc.validator.Validate(product); err != nil {
		return nil, models.InvalidArgument(err)
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, models.InvalidArgument(err)
	}

	uc.publish(ctx, models.ProductEvent{
		Pattern:   models.ProductCreated,
		ProductID: product.ID,
		ShopID:    product.ShopID,
		Product:   product,
	})

	return product, nil
}

func (uc *productUsecase) ListShopProducts(ctx context.Context, shopID string) ([]models.Product, error) {
	products, err := uc.productRepo.ListByShopID(ctx, shopID)
	if err != nil {
		return nil, models.InvalidArgument(err)
	}
	return products, nil
}

func (uc *productUsecase) ListProducts(ctx context.Context, page mongodb.Page) (*mongodb.PaginateWithTotal[models.Product], error) {
	result, err := uc.productRepo.ListNewest(ctx, page)
	if err != nil {
		return nil, models.InvalidArgument(err)
	}
	return result, nil
}

// DeleteProduct removes the product images first and keeps the product when
// any of them could not be removed, so the request can be retried. When the
// images are gone but removing the document fails, the product is left
// pointing at destroyed images; a retry finishes the job because destroying a
// missing image succeeds.
func (uc *productUsecase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrProductNotFound
	}
	if err != nil {
		return models.InvalidArgument(fmt.Errorf("failed to get product: %w", err))
	}

	if err := uc.deleteImages(ctx, product.Images); err != nil {
		return models.Internal("failed to delete product images: %v", err)
	}

	err = uc.productRepo.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrProductNotFound
	}
	if err != nil {
		return models.InvalidArgument(fmt.Errorf("failed to delete product: %w", err))
	}

	uc.publish(ctx, models.ProductEvent{
		Pattern:   models.ProductDeleted,
		ProductID: product.ID,
		ShopID:    product.ShopID,
	})

	return nil
}

func (uc *productUsecase) deleteImages(ctx context.Context, images []models.Image) error {
	var errs error
	for _, img := range images {
		multierr.AppendInto(&errs, uc.mediaHost.DeleteImage(ctx, img))
	}
	return errs
}

func (uc *productUsecase) publish(ctx context.Context, event models.ProductEvent) {
	event.OccurredAt = uc.now().UTC()
	if err := uc.publisher.Publish(ctx, event); err != nil {
		log.Errorw(ctx, "Failed to publish product event", "pattern", event.Pattern, "product_id", event.ProductID, "error", err)
	}
}
