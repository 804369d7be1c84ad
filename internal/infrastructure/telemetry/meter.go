package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/itemtrack/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MeterProvider pushes OTLP metrics next to the Prometheus registry. A
// disabled provider has a nil sdk and hands out no-op meters.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
	log *zap.Logger
}

// NewMeterProvider exports over OTLP/gRPC when both telemetry and metric
// export are switched on.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsExport {
		log.Info("OTLP metric export disabled")
		return &MeterProvider{log: log}, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	interval := cfg.MetricsExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}
	mp, err := NewMeterProviderWithReader(cfg, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), log)
	if err != nil {
		return nil, err
	}
	log.Info("OTLP metric export enabled",
		zap.String("collector", cfg.CollectorEndpoint),
		zap.Duration("interval", interval),
	)
	return mp, nil
}

// NewMeterProviderWithReader collects into reader. The provider is not
// installed globally; callers take meters from it directly.
func NewMeterProviderWithReader(cfg config.TelemetryConfig, reader sdkmetric.Reader, log *zap.Logger) (*MeterProvider, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("build metric resource: %w", err)
	}
	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	return &MeterProvider{sdk: sdk, log: log}, nil
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.sdk != nil
}

// Meter returns a named meter, or a no-op meter when export is disabled.
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.sdk == nil {
		return noop.NewMeterProvider().Meter(name)
	}
	return mp.sdk.Meter(name)
}

// Shutdown pushes the last collection and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := mp.sdk.Shutdown(ctx); err != nil {
		mp.log.Error("Meter provider shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}

var (
	operationKey = attribute.Key("operation")
	outcomeKey   = attribute.Key("outcome")
)

// OperationCounters mirrors the bulk operation counters of Metrics as OTel
// instruments so they reach the collector alongside traces.
type OperationCounters struct {
	operations metric.Int64Counter
	items      metric.Int64Counter
	claimsLost metric.Int64Counter
}

func NewOperationCounters(meter metric.Meter) (*OperationCounters, error) {
	operations, err := meter.Int64Counter("itemtrack.bulk.operations",
		metric.WithDescription("Item operations by outcome"),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, fmt.Errorf("create operations counter: %w", err)
	}
	items, err := meter.Int64Counter("itemtrack.bulk.items",
		metric.WithDescription("Items created, transitioned or deleted by successful operations"),
		metric.WithUnit("{item}"))
	if err != nil {
		return nil, fmt.Errorf("create items counter: %w", err)
	}
	claimsLost, err := meter.Int64Counter("itemtrack.bulk.claims_lost",
		metric.WithDescription("Bulk requests that lost their items to a concurrent request"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("create claims lost counter: %w", err)
	}
	return &OperationCounters{operations: operations, items: items, claimsLost: claimsLost}, nil
}

func (c *OperationCounters) RecordOperation(op string, err error, items int) {
	ctx := context.Background()
	c.operations.Add(ctx, 1, metric.WithAttributes(operationKey.String(op), outcomeKey.String(OutcomeOf(err))))
	if err == nil && items > 0 {
		c.items.Add(ctx, int64(items), metric.WithAttributes(operationKey.String(op)))
	}
}

func (c *OperationCounters) RecordClaimLost(op string) {
	c.claimsLost.Add(context.Background(), 1, metric.WithAttributes(operationKey.String(op)))
}

// OperationRecorder is satisfied by Metrics and OperationCounters.
type OperationRecorder interface {
	RecordOperation(op string, err error, items int)
	RecordClaimLost(op string)
}

// Recorders fans each observation out to every non-nil recorder.
type Recorders []OperationRecorder

func (rs Recorders) RecordOperation(op string, err error, items int) {
	for _, r := range rs {
		if r != nil {
			r.RecordOperation(op, err, items)
		}
	}
}

func (rs Recorders) RecordClaimLost(op string) {
	for _, r := range rs {
		if r != nil {
			r.RecordClaimLost(op)
		}
	}
}
