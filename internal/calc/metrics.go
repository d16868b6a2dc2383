package calc

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	keyCounter     metric.Int64Counter
	rejectCounter  metric.Int64Counter
	errorCounter   metric.Int64Counter
	applyHistogram metric.Float64Histogram
)

// InitMetrics registers custom OTel metric instruments for the calculator
// engine. Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calc")

	var err error

	keyCounter, err = meter.Int64Counter("calc.keys.total",
		metric.WithDescription("Total number of key presses applied to the engine"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating key counter: %w", err)
	}

	rejectCounter, err = meter.Int64Counter("calc.entry_rejects.total",
		metric.WithDescription("Digit or decimal presses rejected by the 8-digit display"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating reject counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calc.errors.total",
		metric.WithDescription("Transitions that latched the calculator error state"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	applyHistogram, err = meter.Float64Histogram("calc.apply.duration",
		metric.WithDescription("Duration of engine transitions in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating apply histogram: %w", err)
	}

	return nil
}
