package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// Engine counters. Registered on the default registry so they appear on the
// same /metrics endpoint as the runtime collectors.
var (
	// ScheduleRegenerations counts completed schedule regenerations per interest type.
	ScheduleRegenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lending_schedule_regenerations_total",
		Help: "Number of completed repayment schedule regenerations.",
	}, []string{"interest_type"})

	// ScheduleRowsWritten counts schedule rows persisted across all regenerations.
	ScheduleRowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lending_schedule_rows_written_total",
		Help: "Number of repayment schedule rows written.",
	})
)
