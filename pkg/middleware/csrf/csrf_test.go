package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPrefixes: []string{"/health"}}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/orders", ok)
	e.POST("/orders", ok)
	e.POST("/health/live", ok)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			found = true
			assert.Equal(t, token, ck.Value)
			assert.False(t, ck.HttpOnly)
		}
	}
	require.True(t, found)
	return token
}

func TestMiddleware(t *testing.T) {
	e := newServer()
	token := issueToken(t, e)

	tests := []struct {
		name   string
		header string
		origin string
		cookie bool
		want   int
	}{
		{"matching token", token, "http://example.com", true, http.StatusOK},
		{"missing header", "", "http://example.com", true, http.StatusForbidden},
		{"wrong token", token + "x", "http://example.com", true, http.StatusForbidden},
		{"no cookie", token, "http://example.com", false, http.StatusForbidden},
		{"foreign origin", token, "https://evil.test", true, http.StatusForbidden},
		{"no origin", token, "", true, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, serve(e, req).Code)
		})
	}
}

func TestMiddleware_KeepsExistingToken(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "existing"})

	rec := serve(e, req)
	assert.Equal(t, "existing", rec.Header().Get("X-CSRF-Token"))
}

func TestMiddleware_SkipPrefixes(t *testing.T) {
	e := newServer()
	rec := serve(e, httptest.NewRequest(http.MethodPost, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
