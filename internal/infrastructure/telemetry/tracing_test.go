package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory span recorder as the global provider
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	restoreGlobalProvider(t)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)
	typeID := uuid.New()

	ctx, span := telemetry.StartServiceSpan(context.Background(), "item", "update_status",
		telemetry.ItemTypeKey.String(typeID.String()),
		telemetry.QuantityKey.Int(20),
	)
	_, child := telemetry.StartServiceSpan(ctx, "item_repo", "claim")
	telemetry.EndSpan(child, nil)
	telemetry.EndSpan(span, nil)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	parent := spans[1]
	assert.Equal(t, "item.update_status", parent.Name())
	assert.Equal(t, trace.SpanKindInternal, parent.SpanKind())
	assert.Equal(t, codes.Ok, parent.Status().Code)
	assert.Contains(t, parent.Attributes(), telemetry.ItemTypeKey.String(typeID.String()))
	assert.Contains(t, parent.Attributes(), attribute.Int("quantity", 20))

	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestEndSpan(t *testing.T) {
	t.Run("error marks the span failed", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartServiceSpan(context.Background(), "item", "delete")
		telemetry.EndSpan(span, errors.New("sold items cannot be deleted"))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "sold items cannot be deleted", spans[0].Status().Description)
		require.Len(t, spans[0].Events(), 1)
		assert.Equal(t, "exception", spans[0].Events()[0].Name)
	})

	t.Run("nil span is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() { telemetry.EndSpan(nil, errors.New("boom")) })
	})
}
