package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindHeader(t *testing.T) {
	type args struct {
		header map[string]string
		out    interface{}
	}

	type normalCase struct {
		Service   string `header:"service"`
		RequestID string `header:"x-request-id"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		ThousandAndSeven  uint64  `header:"thousand-and-seven"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Missing           string  `header:"missing"`
	}

	tests := []struct {
		name    string
		args    args
		want    interface{}
		wantErr bool
	}{
		{
			name: "normal bind header",
			args: args{
				header: map[string]string{
					"service":      "seller-dashboard",
					"x-request-id": "req-1",
					"non":          "non",
					"empty":        "empty",
				},
				out: new(normalCase),
			},
			want: &normalCase{
				Service:   "seller-dashboard",
				RequestID: "req-1",
			},
		},
		{
			name: "complex bind header",
			args: args{
				header: map[string]string{
					"nine":                "9",
					"thousand-and-seven":  "1007",
					"negative-thirty-two": "-32",
					"hundred-point-six":   "100.6",
				},
				out: new(complexCase),
			},
			want: &complexCase{
				Nine:              9,
				ThousandAndSeven:  1007,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
			},
		},
		{
			name: "wrong type",
			args: args{
				header: map[string]string{
					"nine": "nine",
				},
				out: new(complexCase),
			},
			want:    &complexCase{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.args.header {
				header.Set(k, v)
			}
			err := bindHeader(header, tt.args.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.want, tt.args.out)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	type request struct {
		ID      string `param:"id" validate:"required,objectid"`
		Limit   int64  `query:"limit" validate:"gte=0"`
		Service string `header:"service"`
	}

	newContext := func(id, target string) (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		e.Validator = NewValidator()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("service", "storefront")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c, rec
	}

	t.Run("binds param query and header", func(t *testing.T) {
		c, _ := newContext("65f1c0a2e4b0a1b2c3d4e5f6", "/products/65f1c0a2e4b0a1b2c3d4e5f6?limit=5")
		var req request
		require.NoError(t, BindAndValidate(c, &req))
		assert.Equal(t, request{ID: "65f1c0a2e4b0a1b2c3d4e5f6", Limit: 5, Service: "storefront"}, req)
	})

	t.Run("rejects malformed object id", func(t *testing.T) {
		c, _ := newContext("not-an-id", "/products/not-an-id")
		var req request
		err := BindAndValidate(c, &req)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.True(t, strings.Contains(he.Message.(string), "objectid"))
	})
}
