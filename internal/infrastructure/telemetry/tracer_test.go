package telemetry_test

import (
	"context"
	"testing"

	"github.com/itemtrack/backend/internal/infrastructure/config"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func restoreGlobalProvider(t *testing.T) {
	t.Helper()
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, config.TelemetryConfig{
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1,
		ServiceName:       "itemtrack-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithExporter(t *testing.T) {
	restoreGlobalProvider(t)
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()

	tp, err := telemetry.NewTracerProviderWithExporter(
		config.TelemetryConfig{SamplingRatio: 1, ServiceName: "itemtrack-test"}, exporter, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.True(t, tp.IsEnabled())

	_, span := telemetry.StartServiceSpan(ctx, "item", "create")
	telemetry.EndSpan(span, nil)
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "item.create", spans[0].Name)

	service := ""
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "itemtrack-test", service)
	require.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithExporter_ZeroRatioDropsSpans(t *testing.T) {
	restoreGlobalProvider(t)
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()

	tp, err := telemetry.NewTracerProviderWithExporter(config.TelemetryConfig{}, exporter, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "dropped")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	assert.Empty(t, exporter.GetSpans())
	require.NoError(t, tp.Shutdown(ctx))
}
