package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/marketplace/internal/server/middleware"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) error {
	e, err := newEcho(conf, handler, logger.MustNamed("http"))
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr, "base_path", conf.Server.BasePath)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}

func newEcho(conf *config.Config, handler Controller, httpLog pkgmdw.Logger) (*echo.Echo, error) {
	origins, err := regexp.Compile(conf.Server.CORSOriginPattern)
	if err != nil {
		return nil, fmt.Errorf("compile cors origin pattern: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path != "/health" && path != "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics(pkgmdw.DefaultMetricsConfig(conf.Server.MetricsNamespace)))
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(pkgmdw.CORS(origins))
	e.Use(middleware.BodyLimit(conf.Server.BodyLimit))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))

	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group(conf.Server.BasePath)
	api.POST("/upload-images", handler.UploadImages)
	api.POST("/createProducts", handler.CreateProduct)
	api.GET("/getAllProductShop/:id", handler.GetShopProducts)
	api.DELETE("/deleteShopProduct/:id", handler.DeleteShopProduct)
	api.GET("/getAllProducts", handler.GetAllProducts)
	api.GET("/getshops/:id", handler.GetShop)
	api.GET("/getshops", handler.GetShop)

	return e, nil
}
