package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
)

func TestManagerPrometheusMetrics(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := NewManager(lc, config.Config{Observability: config.Observability{
		ServiceName:     "orders-api",
		ServiceVersion:  "test",
		EnableMetrics:   true,
		MetricsExporter: "prometheus",
		PrometheusPath:  "/metrics",
	}}, zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.False(t, mgr.TracingEnabled())
	require.True(t, mgr.MetricsEnabled())
	require.NotNil(t, mgr.MetricsHandler())
	assert.Equal(t, "/metrics", mgr.PrometheusPath())

	meter := mgr.MeterProvider().Meter("test")
	counter, err := meter.Int64Counter(OperationsCounter)
	require.NoError(t, err)
	counter.Add(context.Background(), 3)
	results, err := meter.Int64Histogram(SearchResultsHistogram)
	require.NoError(t, err)
	results.Record(context.Background(), 7)

	rec := httptest.NewRecorder()
	mgr.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "orders_operations")
	assert.Contains(t, body, "go_goroutines")
	// search results use the order bucket layout, not the SDK default
	assert.Contains(t, body, "orders_search_results_bucket")
	assert.Contains(t, body, `le="25"`)
	assert.NotContains(t, body, `le="750"`)
}

func TestManagerTracing(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := NewManager(lc, config.Config{Observability: config.Observability{
		ServiceName:     "orders-api",
		EnableTracing:   true,
		TraceExporter:   "stdout",
		TraceSampleRate: 1,
	}}, zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.True(t, mgr.TracingEnabled())
	assert.False(t, mgr.MetricsEnabled())
}

func TestManagerUnknownExportersDisableSignals(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := NewManager(lc, config.Config{Observability: config.Observability{
		ServiceName:     "orders-api",
		EnableTracing:   true,
		TraceExporter:   "jaeger",
		EnableMetrics:   true,
		MetricsExporter: "statsd",
	}}, nil)
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.False(t, mgr.TracingEnabled())
	assert.False(t, mgr.MetricsEnabled())
	assert.Nil(t, mgr.MetricsHandler())
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1).Description(), "root:AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "root:AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "root:TraceIDRatioBased{0.25}")
}

func TestManagerDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := NewManager(lc, config.Config{Observability: config.Observability{
		ServiceName:     "orders-api",
		MetricsExporter: "none",
	}}, zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.False(t, mgr.TracingEnabled())
	assert.False(t, mgr.MetricsEnabled())
	assert.Nil(t, mgr.MetricsHandler())
}
