package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	echoHandler := func(t *testing.T) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID, ok := c.Get(XRequestID).(string)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "request ID not found in context")
			}
			assert.Equal(t, reqID, GetRequestIDFromContext(c.Request().Context()))
			assert.Equal(t, reqID, GetRequestID(c))
			return c.String(http.StatusOK, reqID)
		}
	}

	tests := []struct {
		name    string
		header  string
		value   string
		wantID  string
		isFixed bool
	}{
		{name: "keeps request id", header: XRequestID, value: "custom-request-id", wantID: "custom-request-id", isFixed: true},
		{name: "falls back to correlation id", header: XCorrelationID, value: "corr-1", wantID: "corr-1", isFixed: true},
		{name: "generates when missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequestID()(echoHandler(t))(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			got := rec.Header().Get(XRequestID)
			assert.Equal(t, got, rec.Body.String())
			if tt.isFixed {
				assert.Equal(t, tt.wantID, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}
