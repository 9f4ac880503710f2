package calculator

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"go-calculator/internal/observability"
)

// Metric instruments, initialized once via InitMetrics().
var (
	actionsCounter metric.Int64Counter
	actionDuration metric.Float64Histogram
	errorCounter   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// liveSessions is exported on the Prometheus /metrics endpoint.
var liveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "calculator_live_sessions",
	Help: "Calculator sessions currently held in memory.",
})

func init() {
	observability.Registry.MustRegister(liveSessions)
}

// Outcome labels for the actions counter.
const (
	outcomeChanged  = "changed"
	outcomeNoop     = "noop"
	outcomeRejected = "rejected"
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Instruments created before a meter provider is installed delegate to it once
// it is, so calling this early is safe. Later calls are no-ops.
func InitMetrics() error {
	metricsOnce.Do(func() {
		metricsErr = initMetrics()
	})
	return metricsErr
}

func initMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	actionsCounter, err = meter.Int64Counter("calculator.actions.total",
		metric.WithDescription("Total number of calculator actions dispatched"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return fmt.Errorf("creating actions counter: %w", err)
	}

	actionDuration, err = meter.Float64Histogram("calculator.action.duration",
		metric.WithDescription("Duration of calculator reductions in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating action histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
