package observability

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	stdoutmetric "go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
)

// Instrument names recorded by the order service.
const (
	OperationsCounter      = "orders.operations"
	SearchResultsHistogram = "orders.search.results"
)

const stdoutExportInterval = 30 * time.Second

// searchResultBuckets fit match counts of a search, from a handful of orders
// up to whole-table scans.
var searchResultBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000, 5000}

func orderViews() []sdkmetric.View {
	return []sdkmetric.View{
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: SearchResultsHistogram},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: searchResultBuckets,
			}},
		),
	}
}

// newMeterProvider returns a nil provider when the exporter name is unknown.
// The handler is only set for the prometheus exporter.
func newMeterProvider(obs config.Observability, res *sdkresource.Resource, logger *zap.Logger) (*sdkmetric.MeterProvider, http.Handler, error) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res), sdkmetric.WithView(orderViews()...)}

	switch obs.MetricsExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, nil, err
		}
		handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
		return sdkmetric.NewMeterProvider(append(opts, sdkmetric.WithReader(exporter))...), handler, nil
	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint(), stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, nil, err
		}
		reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(stdoutExportInterval))
		return sdkmetric.NewMeterProvider(append(opts, sdkmetric.WithReader(reader))...), nil, nil
	default:
		logger.Warn("unsupported metrics exporter; metrics disabled", zap.String("exporter", obs.MetricsExporter))
		return nil, nil, nil
	}
}
