package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/pkg/util"
)

const (
	destroyOK       = "ok"
	destroyNotFound = "not found"
)

// Client stores and removes product images on Cloudinary.
type Client interface {
	Upload(ctx context.Context, name string, file io.Reader) (models.Image, error)
	DeleteImage(ctx context.Context, image models.Image) error
}

// uploadAPI is the part of *uploader.API used here.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type cloudinaryClient struct {
	api     uploadAPI
	folder  string
	timeout time.Duration
	metrics *prometheus.HistogramVec
}

func NewCloudinaryClient(cfg *config.Config) (Client, error) {
	conf := cfg.Cloudinary

	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if conf.URL != "" {
		cld, err = cloudinary.NewFromURL(conf.URL)
	} else {
		cld, err = cloudinary.NewFromParams(conf.CloudName, conf.APIKey, conf.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return newClient(&cld.Upload, conf.Folder, conf.Timeout)
}

func newClient(api uploadAPI, folder string, timeout time.Duration) (*cloudinaryClient, error) {
	metrics, err := util.GetHistogramVec("media_host_request_duration_seconds", "operation", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &cloudinaryClient{
		api:     api,
		folder:  folder,
		timeout: timeout,
		metrics: metrics,
	}, nil
}

func (c *cloudinaryClient) Upload(ctx context.Context, name string, file io.Reader) (img models.Image, err error) {
	defer c.observe("upload", time.Now(), &err)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.api.Upload(ctx, file, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return models.Image{}, fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	if url == "" || res.PublicID == "" {
		return models.Image{}, fmt.Errorf("upload %s: empty result", name)
	}

	return models.Image{PublicID: res.PublicID, URL: url}, nil
}

// DeleteImage destroys the stored file. Deleting a file that is already gone
// is not an error.
func (c *cloudinaryClient) DeleteImage(ctx context.Context, image models.Image) (err error) {
	defer c.observe("destroy", time.Now(), &err)

	publicID := image.PublicID
	if publicID == "" {
		publicID = models.PublicIDFromURL(image.URL)
	}
	if publicID == "" {
		return fmt.Errorf("destroy %q: no public id", image.URL)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Error.Message)
	}
	switch res.Result {
	case destroyOK, destroyNotFound:
		return nil
	default:
		return fmt.Errorf("destroy %s: unexpected result %q", publicID, res.Result)
	}
}

func (c *cloudinaryClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *cloudinaryClient) observe(operation string, start time.Time, err *error) {
	status := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, context.DeadlineExceeded):
		status = "timeout"
	default:
		status = "error"
	}
	c.metrics.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
