package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordSave(context.Background(), "run", time.Millisecond, nil)
		m.RecordSave(context.Background(), "run", 0, errors.New("x"))
		m.RecordLoad(context.Background(), "", 0, nil)
		m.RecordFileWrite(context.Background(), "mesh", 0)
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	gotCtx, span := sm.StartSaveSpan(ctx, "run", 0, 0)
	assert.Equal(t, ctx, gotCtx)
	assert.False(t, span.IsRecording())

	gotCtx, span = sm.StartLoadSpan(ctx, "run", 0, 0)
	assert.Equal(t, ctx, gotCtx)
	assert.NotNil(t, span)

	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("x"))
		sm.AddSpanEvent(ctx, "event", attribute.Int("n", 1))
	})
}
