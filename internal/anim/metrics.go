package anim

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	sequenceCounter   metric.Int64Counter
	commandCounter    metric.Int64Counter
	sequenceHistogram metric.Float64Histogram
	queueDepth        metric.Int64Gauge
)

// InitMetrics registers custom OTel metric instruments for the animation
// scheduler. Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("anim")

	var err error

	sequenceCounter, err = meter.Int64Counter("anim.sequences.total",
		metric.WithDescription("Total number of finished key sequences"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return fmt.Errorf("creating sequence counter: %w", err)
	}

	commandCounter, err = meter.Int64Counter("anim.commands.total",
		metric.WithDescription("Total number of executed sequence commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return fmt.Errorf("creating command counter: %w", err)
	}

	sequenceHistogram, err = meter.Float64Histogram("anim.sequence.duration",
		metric.WithDescription("Wall-clock playback time of a sequence in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000, 10000),
	)
	if err != nil {
		return fmt.Errorf("creating sequence histogram: %w", err)
	}

	queueDepth, err = meter.Int64Gauge("anim.queue.depth",
		metric.WithDescription("Number of sequences waiting in the scheduler queue"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return fmt.Errorf("creating queue depth gauge: %w", err)
	}

	return nil
}
