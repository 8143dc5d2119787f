package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
	pkgmdw "github.com/nguyentranbao-ct/marketplace/internal/server/middleware"
	"github.com/nguyentranbao-ct/marketplace/internal/usecase"
	"github.com/nguyentranbao-ct/marketplace/pkg/util"
)

const imagesField = "images"

type Controller interface {
	UploadImages(c echo.Context) error
	CreateProduct(c echo.Context) error
	GetShopProducts(c echo.Context) error
	DeleteShopProduct(c echo.Context) error
	GetAllProducts(c echo.Context) error
	GetShop(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	productUsecase usecase.ProductUsecase
	shopUsecase    usecase.ShopUsecase
	legacyStatus   bool
}

func NewHandler(
	conf *config.Config,
	productUsecase usecase.ProductUsecase,
	shopUsecase usecase.ShopUsecase,
) Controller {
	return &controller{
		productUsecase: productUsecase,
		shopUsecase:    shopUsecase,
		legacyStatus:   conf.Server.LegacyStatusCodes,
	}
}

type uploadImagesResponse struct {
	Success   bool           `json:"success"`
	ImageURLs []string       `json:"imageUrls"`
	Images    []models.Image `json:"images"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *models.Product `json:"product"`
}

type productsResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
	Total    *int64           `json:"total,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type shopIDRequest struct {
	ID string `param:"id" validate:"required"`
}

type productIDRequest struct {
	ID string `param:"id" validate:"required"`
}

type listProductsRequest struct {
	Limit int64 `query:"limit" validate:"gte=0,lte=100"`
	Skip  int64 `query:"skip" validate:"gte=0"`
}

// getShopRequest accepts the id from the path, the query or a JSON body.
type getShopRequest struct {
	ID string `param:"id" query:"id" json:"id" validate:"required"`
}

// readStatus is the status of successful reads and deletes. The first version
// of the API answered them with 201.
func (h *controller) readStatus() int {
	if h.legacyStatus {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *controller) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return models.ErrNoFilesUploaded
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	files := util.ConvertList(form.File[imagesField], toUploadFile)
	images, err := h.productUsecase.UploadImages(c.Request().Context(), files)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, uploadImagesResponse{
		Success:   true,
		ImageURLs: models.ImageURLs(images),
		Images:    images,
	})
}

func toUploadFile(fh *multipart.FileHeader) usecase.UploadFile {
	return usecase.UploadFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (h *controller) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return err
	}

	created, err := h.productUsecase.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, productResponse{
		Success: true,
		Product: created,
	})
}

func (h *controller) GetShopProducts(c echo.Context) error {
	var req shopIDRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	products, err := h.productUsecase.ListShopProducts(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(h.readStatus(), productsResponse{
		Success:  true,
		Products: products,
	})
}

func (h *controller) DeleteShopProduct(c echo.Context) error {
	var req productIDRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.productUsecase.DeleteProduct(c.Request().Context(), req.ID); err != nil {
		return err
	}

	return c.JSON(h.readStatus(), messageResponse{
		Success: true,
		Message: "Product Deleted successfully!",
	})
}

func (h *controller) GetAllProducts(c echo.Context) error {
	var req listProductsRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.productUsecase.ListProducts(c.Request().Context(), mongodb.Page{
		Limit: req.Limit,
		Skip:  req.Skip,
	})
	if err != nil {
		return err
	}
	products := result.Data
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(h.readStatus(), productsResponse{
		Success:  true,
		Products: products,
		Total:    util.Ptr(result.Total),
	})
}

// GetShop serves both /getshops/:id and the older /getshops that carried the
// id in the query or the body.
func (h *controller) GetShop(c echo.Context) error {
	var req getShopRequest
	if err := c.Bind(&req); err != nil {
		return models.ErrShopInvalid
	}
	if req.ID == "" {
		return models.ErrShopInvalid
	}

	shop, err := h.shopUsecase.GetShop(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shop)
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "marketplace",
	})
}
