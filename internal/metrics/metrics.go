// Package metrics owns the Prometheus collectors of one service process.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Verification modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Metrics is a per-process registry with the collectors the services use.
// Each binary builds its own so tests never share global state.
type Metrics struct {
	Registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	grants        *prometheus.CounterVec
	verifications *prometheus.CounterVec
}

// New registers all collectors, labelled with the service name.
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		grants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "oauth_grants_total",
			Help:        "Token grant requests by grant type and result.",
			ConstLabels: constLabels,
		}, []string{"grant_type", "result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "token_verifications_total",
			Help:        "Bearer token verifications by mode and result.",
			ConstLabels: constLabels,
		}, []string{"mode", "result"}),
	}
	reg.MustRegister(m.requests, m.duration, m.grants, m.verifications)
	return m
}

// ObserveGrant counts one grant request. result is ResultSuccess or an
// error kind.
func (m *Metrics) ObserveGrant(grantType, result string) {
	if m == nil {
		return
	}
	m.grants.WithLabelValues(grantType, result).Inc()
}

// ObserveVerification counts one bearer token check.
func (m *Metrics) ObserveVerification(mode, result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(mode, result).Inc()
}

// Middleware records request counts and latency per matched route. Errors
// are rendered here through the echo error handler so the recorded status is
// the one the client receives.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
