package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/pkg/oauth"
)

const namespace = "nanum"

type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	oauthCalls       *prometheus.HistogramVec
	orderTransitions *prometheus.CounterVec
	pointsCredited   prometheus.Counter
	reviewsSubmitted prometheus.Counter
	logins           *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		oauthCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "oauth", Name: "call_duration_seconds",
			Help:    "Identity provider call latency by call and outcome.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"call", "outcome"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "order", Name: "transitions_total",
			Help: "Order status transitions.",
		}, []string{"from", "to"}),
		pointsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "group", Name: "points_credited_total",
			Help: "Reward points credited to group accounts.",
		}),
		reviewsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "review", Name: "submitted_total",
			Help: "Reviews stored.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.oauthCalls,
		m.orderTransitions,
		m.pointsCredited,
		m.reviewsSubmitted,
		m.logins,
	)
	return m
}

func (m *Metrics) OrderTransition(from, to domain.DeliveryStatus) {
	m.orderTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) PointsCredited(points int64) {
	m.pointsCredited.Add(float64(points))
}

func (m *Metrics) ReviewSubmitted() {
	m.reviewsSubmitted.Inc()
}

func (m *Metrics) LoginResult(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// OAuthObserver feeds identity provider latencies into the oauth histogram.
func (m *Metrics) OAuthObserver() oauth.CallObserver {
	return func(call, outcome string, elapsed time.Duration) {
		m.oauthCalls.WithLabelValues(call, outcome).Observe(elapsed.Seconds())
	}
}

// Middleware counts requests by route template, not raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < 400 {
					status = 500
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
