package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/itemtrack/backend"

// Attribute keys put on service and request spans
const (
	TenantKey   = attribute.Key("tenant_id")
	UserKey     = attribute.Key("user_id")
	ItemTypeKey = attribute.Key("item_type_id")
	ItemKey     = attribute.Key("item_id")
	QuantityKey = attribute.Key("quantity")
	StatusKey   = attribute.Key("status")
	AffectedKey = attribute.Key("items.affected")
)

// StartServiceSpan opens an internal span named "<service>.<op>" on the
// global provider, so spans are no-ops until a TracerProvider is installed.
// End it with EndSpan.
func StartServiceSpan(ctx context.Context, service, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, service+"."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err, if any, as the span outcome and ends it.
func EndSpan(span trace.Span, err error) {
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
