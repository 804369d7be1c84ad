package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantLister lists the tenants whose stock is exported
type TenantLister interface {
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StatusCounter groups items by type and status
type StatusCounter interface {
	CountByTypeAndStatus(ctx context.Context, v inventory.Visibility, itemTypeID *uuid.UUID) ([]inventory.StatusCount, error)
}

// StockGauges keeps the per-tenant item gauges in line with the store
type StockGauges struct {
	metrics *Metrics
	tenants TenantLister
	counter StatusCounter
	logger  *zap.Logger
	now     func() time.Time
}

// NewStockGauges creates a new StockGauges
func NewStockGauges(metrics *Metrics, tenants TenantLister, counter StatusCounter, logger *zap.Logger) *StockGauges {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockGauges{
		metrics: metrics,
		tenants: tenants,
		counter: counter,
		logger:  logger,
		now:     time.Now,
	}
}

// Refresh recounts every active tenant and replaces the gauge values.
// A tenant that fails to count keeps no series until the next refresh.
func (g *StockGauges) Refresh(ctx context.Context) error {
	tenantIDs, err := g.tenants.FindAllIDs(ctx)
	if err != nil {
		g.metrics.gaugeRefresh.WithLabelValues(OutcomeError).Set(float64(g.now().Unix()))
		return fmt.Errorf("list tenants: %w", err)
	}

	type series struct {
		tenant, itemType, status string
		value                    float64
	}
	var (
		collected []series
		errs      []error
	)
	for _, tenantID := range tenantIDs {
		counts, err := g.counter.CountByTypeAndStatus(ctx, inventory.Visibility{
			Scope:    inventory.ScopeTenant,
			TenantID: tenantID,
		}, nil)
		if err != nil {
			g.logger.Warn("item gauge refresh failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
			continue
		}
		for _, summary := range inventory.BuildSummary(counts) {
			for _, status := range inventory.AllStatuses() {
				collected = append(collected, series{
					tenant:   tenantID.String(),
					itemType: summary.ItemTypeID.String(),
					status:   status.String(),
					value:    float64(summary.Count(status)),
				})
			}
		}
	}

	// Reset drops series of deleted types and deactivated tenants
	g.metrics.itemsByStatus.Reset()
	for _, s := range collected {
		g.metrics.itemsByStatus.WithLabelValues(s.tenant, s.itemType, s.status).Set(s.value)
	}

	outcome := OutcomeSuccess
	if len(errs) > 0 {
		outcome = OutcomeError
	}
	g.metrics.gaugeRefresh.WithLabelValues(outcome).Set(float64(g.now().Unix()))
	g.logger.Debug("item gauges refreshed",
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("series", len(collected)),
	)
	return errors.Join(errs...)
}

// EventMetricsHandler counts inventory events as they are published
type EventMetricsHandler struct {
	metrics *Metrics
}

// NewEventMetricsHandler creates a new EventMetricsHandler
func NewEventMetricsHandler(metrics *Metrics) *EventMetricsHandler {
	return &EventMetricsHandler{metrics: metrics}
}

// EventTypes returns the inventory event types
func (h *EventMetricsHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeItemsCreated,
		inventory.EventTypeItemStatusChanged,
		inventory.EventTypeItemsDeleted,
	}
}

// Handle counts the event
func (h *EventMetricsHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.metrics.events.WithLabelValues(event.EventType()).Inc()
	if e, ok := event.(*inventory.ItemStatusChangedEvent); ok {
		h.metrics.transitions.WithLabelValues(e.FromStatus.String(), e.ToStatus.String()).Inc()
	}
	return nil
}
