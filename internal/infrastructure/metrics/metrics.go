// Package metrics owns the Prometheus registry exposed at /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the suite exports
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeFallbacks  *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	remoteConnected prometheus.Gauge
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	// Register default metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		storeFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_fallback_total",
				Help: "Remote store operations answered from memory after a failure",
			},
			[]string{"collection", "op"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_requests_total",
				Help: "Read cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		remoteConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "store_remote_connected",
				Help: "1 when the remote store is in use, 0 in fallback mode",
			},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.storeFallbacks, m.cacheRequests, m.remoteConnected)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StoreFallback counts an operation served from memory after a remote failure
func (m *Metrics) StoreFallback(collection, op string) {
	m.storeFallbacks.WithLabelValues(collection, op).Inc()
}

// CacheLookup counts a read cache hit or miss
func (m *Metrics) CacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(kind, result).Inc()
}

// SetRemoteConnected records the connection manager's state
func (m *Metrics) SetRemoteConnected(connected bool) {
	if connected {
		m.remoteConnected.Set(1)
		return
	}
	m.remoteConnected.Set(0)
}

// Middleware records request counts and latency per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
