package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "ticketing"

// MetricOpts contains common options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel Int64Counter (monotonic)
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new counter metric
func NewCounter(opts MetricOpts) (*Counter, error) {
	meter := otel.Meter(instrumentationName)
	counter, err := meter.Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Add increments the counter by the given value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Histogram wraps an OTel Float64Histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a new histogram metric with default buckets
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	return NewHistogramWithBuckets(opts, nil)
}

// NewHistogramWithBuckets creates a new histogram metric with explicit buckets
func NewHistogramWithBuckets(opts MetricOpts, buckets []float64) (*Histogram, error) {
	meter := otel.Meter(instrumentationName)
	histOpts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(buckets) > 0 {
		histOpts = append(histOpts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	histogram, err := meter.Float64Histogram(opts.Name, histOpts...)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// UpDownCounter wraps an OTel Int64UpDownCounter (non-monotonic)
type UpDownCounter struct {
	counter metric.Int64UpDownCounter
}

// NewUpDownCounter creates a new up-down counter metric
func NewUpDownCounter(opts MetricOpts) (*UpDownCounter, error) {
	meter := otel.Meter(instrumentationName)
	counter, err := meter.Int64UpDownCounter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &UpDownCounter{counter: counter}, nil
}

// Inc increments the counter by 1
func (u *UpDownCounter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	u.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Dec decrements the counter by 1
func (u *UpDownCounter) Dec(ctx context.Context, attrs ...attribute.KeyValue) {
	u.counter.Add(ctx, -1, metric.WithAttributes(attrs...))
}

// Add adds the given value to the counter (may be negative)
func (u *UpDownCounter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	u.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
