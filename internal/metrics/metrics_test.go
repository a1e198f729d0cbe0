package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanum-market/nanum/internal/domain"
)

func TestDomainCounters(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	m.OrderTransition(domain.StatusShipped, domain.StatusCompleted)
	m.OrderTransition(domain.StatusShipped, domain.StatusCompleted)
	m.PointsCredited(150)
	m.ReviewSubmitted()
	m.LoginResult("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orderTransitions.WithLabelValues("SHIPPED", "COMPLETED")))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.pointsCredited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviewsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("success")))

	m.OAuthObserver()("exchange_code", "ok", 120*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.oauthCalls))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/orders/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "conflict") })

	for _, path := range []string{"/orders/1", "/orders/2", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/orders/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/fail", "GET", "409")))
}
