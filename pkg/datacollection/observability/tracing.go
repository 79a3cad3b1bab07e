package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("datacollection")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSaveSpan starts a span covering the save of one cycle.
	StartSaveSpan(ctx context.Context, collection string, cycle, rank int) (context.Context, trace.Span)

	// StartLoadSpan starts a span covering the load of one cycle.
	StartLoadSpan(ctx context.Context, collection string, cycle, rank int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func cycleAttrs(collection string, cycle, rank int) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("collection.name", collection),
		attribute.Int("collection.cycle", cycle),
		attribute.Int("collection.rank", rank),
	)
}

// StartSaveSpan starts a save span.
func (m *otelSpanManager) StartSaveSpan(ctx context.Context, collection string, cycle, rank int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datacollection.save",
		cycleAttrs(collection, cycle, rank),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLoadSpan starts a load span.
func (m *otelSpanManager) StartLoadSpan(ctx context.Context, collection string, cycle, rank int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "datacollection.load",
		cycleAttrs(collection, cycle, rank),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
