package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const notFoundRoute = "/not-found"

// MetricsConfig configures the request duration histogram.
type MetricsConfig struct {
	Skipper   Skipper
	Namespace string
	Subsystem string
	Buckets   []float64
	// NormalizeHTTPStatus reports 2xx/4xx/... instead of exact codes.
	NormalizeHTTPStatus bool
	// SkipRoutes are not measured, typically probes and the scrape endpoint.
	SkipRoutes []string
}

var defaultBuckets = []float64{
	0.0005,
	0.001, // 1ms
	0.005,
	0.01, // 10ms
	0.05,
	0.1, // 100ms
	0.25,
	0.5,
	1.0, // 1s
	2.5,
	5.0,
	10.0, // 10s
	30.0, // uploads of large batches
}

// DefaultMetricsConfig returns the settings used by the API server.
func DefaultMetricsConfig(namespace string) MetricsConfig {
	return MetricsConfig{
		Skipper:    DefaultSkipper,
		Namespace:  namespace,
		Subsystem:  "http",
		Buckets:    defaultBuckets,
		SkipRoutes: []string{"/health", "/metrics"},
	}
}

func normalizeHTTPStatus(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// Metrics measures every matched route. Path params stay in the route
// template and unmatched requests share one label value, so label
// cardinality is bounded by the route table.
func Metrics(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if len(config.Buckets) == 0 {
		config.Buckets = defaultBuckets
	}
	durations, err := requestDurations(config)
	if err != nil {
		panic(err)
	}
	skip := make(map[string]struct{}, len(config.SkipRoutes))
	for _, route := range config.SkipRoutes {
		skip[route] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if _, ok := skip[route]; ok || config.Skipper(c) {
				return next(c)
			}
			if route == "" || isNotFoundHandler(c.Handler()) {
				route = notFoundRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			code := strconv.Itoa(c.Response().Status)
			if config.NormalizeHTTPStatus {
				code = normalizeHTTPStatus(c.Response().Status)
			}
			durations.WithLabelValues(code, c.Request().Method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// requestDurations registers the histogram once per namespace and reuses it
// when several servers are built in one process.
func requestDurations(config MetricsConfig) (*prometheus.HistogramVec, error) {
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Time spent serving a route.",
		Buckets:   config.Buckets,
	}, []string{"code", "method", "route"})

	err := prometheus.Register(durations)
	if err == nil {
		return durations, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("register request durations: %w", err)
}
