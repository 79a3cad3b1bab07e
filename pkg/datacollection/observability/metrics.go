package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records data collection metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSave records a completed or failed save of one cycle.
	RecordSave(ctx context.Context, collection string, duration time.Duration, err error)

	// RecordLoad records a completed or failed load of one cycle.
	RecordLoad(ctx context.Context, collection string, duration time.Duration, err error)

	// RecordFileWrite records the size of one written file.
	// kind is "mesh", "field", or "root".
	RecordFileWrite(ctx context.Context, kind string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	saves       metric.Int64Counter
	saveLatency metric.Float64Histogram
	saveErrors  metric.Int64Counter
	loads       metric.Int64Counter
	loadLatency metric.Float64Histogram
	loadErrors  metric.Int64Counter
	fileSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("datacollection")

	saves, err := meter.Int64Counter("datacollection.save.count",
		metric.WithDescription("Number of cycle saves"),
	)
	if err != nil {
		return nil, err
	}

	saveLatency, err := meter.Float64Histogram("datacollection.save.latency_ms",
		metric.WithDescription("Cycle save latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	saveErrors, err := meter.Int64Counter("datacollection.save.errors",
		metric.WithDescription("Number of failed cycle saves"),
	)
	if err != nil {
		return nil, err
	}

	loads, err := meter.Int64Counter("datacollection.load.count",
		metric.WithDescription("Number of cycle loads"),
	)
	if err != nil {
		return nil, err
	}

	loadLatency, err := meter.Float64Histogram("datacollection.load.latency_ms",
		metric.WithDescription("Cycle load latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter("datacollection.load.errors",
		metric.WithDescription("Number of failed cycle loads"),
	)
	if err != nil {
		return nil, err
	}

	fileSize, err := meter.Int64Histogram("datacollection.file.size_bytes",
		metric.WithDescription("Size of written mesh, field, and root files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		saves:       saves,
		saveLatency: saveLatency,
		saveErrors:  saveErrors,
		loads:       loads,
		loadLatency: loadLatency,
		loadErrors:  loadErrors,
		fileSize:    fileSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSave records a save.
func (m *otelMetrics) RecordSave(ctx context.Context, collection string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("collection", collection))
	m.saves.Add(ctx, 1, attrs)
	m.saveLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.saveErrors.Add(ctx, 1, attrs)
	}
}

// RecordLoad records a load.
func (m *otelMetrics) RecordLoad(ctx context.Context, collection string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("collection", collection))
	m.loads.Add(ctx, 1, attrs)
	m.loadLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.loadErrors.Add(ctx, 1, attrs)
	}
}

// RecordFileWrite records a file write.
func (m *otelMetrics) RecordFileWrite(ctx context.Context, kind string, sizeBytes int64) {
	m.fileSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.String("kind", kind)))
}
