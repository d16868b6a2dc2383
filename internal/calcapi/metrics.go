package calcapi

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// errorCounter counts HTTP-level request failures. Domain errors (the
// engine's error latch) are counted by the calc package instead.
var errorCounter metric.Int64Counter

// InitMetrics registers the API's OTel metric instruments. Call this once at
// startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calcapi")

	var err error
	errorCounter, err = meter.Int64Counter("calcapi.request_errors.total",
		metric.WithDescription("Total number of rejected calculator API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
