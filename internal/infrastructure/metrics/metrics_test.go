package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndCacheCounters(t *testing.T) {
	m := New()

	m.StoreFallback("tasks", "insert")
	m.StoreFallback("tasks", "insert")
	m.CacheLookup("stats", true)
	m.CacheLookup("stats", false)
	m.SetRemoteConnected(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeFallbacks.WithLabelValues("tasks", "insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("stats", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("stats", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteConnected))

	m.SetRemoteConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.remoteConnected))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "store_remote_connected")
}
