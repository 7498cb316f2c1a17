package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Module exposes the observability manager to Fx.
var Module = fx.Provide(NewManager)

// Manager owns the tracer and meter providers of the orders service and
// installs them as the otel globals while the app runs.
type Manager struct {
	cfg    config.Observability
	logger *zap.Logger

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metricsHandler http.Handler
}

// NewManager builds the providers selected by cfg. Either may be absent.
func NewManager(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	obs := cfg.Observability

	res, err := newResource(context.Background(), obs)
	if err != nil {
		return nil, err
	}

	m := &Manager{cfg: obs, logger: logger}
	if obs.EnableTracing {
		if m.tracerProvider, err = newTracerProvider(context.Background(), obs, res, logger); err != nil {
			return nil, err
		}
	}
	if obs.EnableMetrics {
		if m.meterProvider, m.metricsHandler, err = newMeterProvider(obs, res, logger); err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			m.install()
			return nil
		},
		OnStop: m.shutdown,
	})
	return m, nil
}

func newResource(ctx context.Context, obs config.Observability) (*sdkresource.Resource, error) {
	return sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithHost(),
		sdkresource.WithAttributes(
			semconv.ServiceName(obs.ServiceName),
			semconv.ServiceVersion(obs.ServiceVersion),
			semconv.DeploymentEnvironment(obs.Environment),
		),
	)
}

func (m *Manager) install() {
	if m.tracerProvider != nil {
		otel.SetTracerProvider(m.tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}
	if m.meterProvider != nil {
		otel.SetMeterProvider(m.meterProvider)
	}
	m.logger.Info("observability ready",
		zap.Bool("tracing", m.TracingEnabled()),
		zap.Bool("metrics", m.MetricsEnabled()),
	)
}

// shutdown flushes pending spans and metrics.
func (m *Manager) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var err error
	if m.tracerProvider != nil {
		err = errors.Join(err, m.tracerProvider.Shutdown(ctx))
	}
	if m.meterProvider != nil {
		err = errors.Join(err, m.meterProvider.Shutdown(ctx))
	}
	return err
}

// TracingEnabled reports whether spans are exported.
func (m *Manager) TracingEnabled() bool { return m.tracerProvider != nil }

// MetricsEnabled reports whether a meter provider is installed.
func (m *Manager) MetricsEnabled() bool { return m.meterProvider != nil }

// MetricsHandler serves the Prometheus scrape endpoint; nil unless the
// prometheus exporter is selected.
func (m *Manager) MetricsHandler() http.Handler { return m.metricsHandler }

// MeterProvider exposes the SDK meter provider, nil when metrics are off.
func (m *Manager) MeterProvider() *sdkmetric.MeterProvider { return m.meterProvider }

// PrometheusPath returns the configured metrics endpoint path.
func (m *Manager) PrometheusPath() string { return m.cfg.PrometheusPath }
