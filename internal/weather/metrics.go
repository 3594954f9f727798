package weather

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	fetchCounter   metric.Int64Counter
	fetchHistogram metric.Float64Histogram
	errorCounter   metric.Int64Counter
)

// InitMetrics registers the weather domain's OTel instruments.
func InitMetrics() error {
	meter := otel.Meter("weather")

	var err error

	fetchCounter, err = meter.Int64Counter("weather.fetches.total",
		metric.WithDescription("Total number of successful JMA forecast fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return fmt.Errorf("creating fetch counter: %w", err)
	}

	fetchHistogram, err = meter.Float64Histogram("weather.fetch.duration",
		metric.WithDescription("Duration of JMA requests in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return fmt.Errorf("creating fetch histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("weather.errors.total",
		metric.WithDescription("Total number of weather endpoint errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
