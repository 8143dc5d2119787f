package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetricsMiddleware(t *testing.T) {
	conf := DefaultMetricsConfig("metricstest")
	durations, err := requestDurations(conf)
	require.NoError(t, err)
	durations.Reset()

	e := echo.New()
	e.Use(Metrics(conf))
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/getAllProductShop/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})
	e.DELETE("/deleteShopProduct/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Product is not found with this id")
	})
	e.POST("/upload-images", func(c echo.Context) error {
		return fmt.Errorf("media host down")
	})

	for i := 0; i < 10; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/getAllProductShop/shop-%d", i))
	}
	for i := 0; i < 4; i++ {
		makeRequest(e, http.MethodDelete, "/deleteShopProduct/missing")
	}
	for i := 0; i < 3; i++ {
		makeRequest(e, http.MethodPost, "/upload-images")
	}
	for i := 0; i < 7; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/unknown/%d", i))
	}
	makeRequest(e, http.MethodGet, "/health")

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()

	wants := []string{
		`metricstest_http_request_duration_seconds_count{code="200",method="GET",route="/getAllProductShop/:id"} 10`,
		`metricstest_http_request_duration_seconds_count{code="404",method="DELETE",route="/deleteShopProduct/:id"} 4`,
		`metricstest_http_request_duration_seconds_count{code="500",method="POST",route="/upload-images"} 3`,
		`metricstest_http_request_duration_seconds_count{code="404",method="GET",route="/not-found"} 7`,
	}
	for _, want := range wants {
		assert.True(t, strings.Contains(body, want), "missing %s", want)
	}
	assert.NotContains(t, body, `route="/health"`)
	assert.NotContains(t, body, `route="/metrics"`)
}

func TestMetricsNormalizedStatus(t *testing.T) {
	conf := DefaultMetricsConfig("metricsnorm")
	conf.NormalizeHTTPStatus = true

	e := echo.New()
	e.Use(Metrics(conf))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/getshops/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "shopId is invalid")
	})

	makeRequest(e, http.MethodGet, "/getshops/abc")

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()
	assert.Contains(t, body, `metricsnorm_http_request_duration_seconds_count{code="4xx",method="GET",route="/getshops/:id"} 1`)
}

func TestNormalizeHTTPStatus(t *testing.T) {
	tests := map[int]string{
		101: "1xx",
		200: "2xx",
		201: "2xx",
		304: "3xx",
		400: "4xx",
		404: "4xx",
		499: "4xx",
		500: "5xx",
		503: "5xx",
	}
	for status, want := range tests {
		assert.Equal(t, want, normalizeHTTPStatus(status), "status %d", status)
	}
}
