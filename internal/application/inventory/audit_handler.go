package inventory

import (
	"context"

	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured audit line per inventory event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns the inventory event types
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeItemsCreated,
		inventory.EventTypeItemStatusChanged,
		inventory.EventTypeItemsDeleted,
	}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *inventory.ItemStatusChangedEvent:
		fields = append(fields,
			zap.String("item_id", e.AggregateID().String()),
			zap.String("from", e.FromStatus.String()),
			zap.String("to", e.ToStatus.String()),
			zap.String("changed_by", e.ChangedBy.String()),
			zap.Bool("return", e.IsReturn),
		)
		if e.Holder != nil {
			fields = append(fields, zap.String("holder_id", e.Holder.String()))
		}
		if e.SellPrice != nil {
			fields = append(fields, zap.String("sell_price", e.SellPrice.String()))
		}
	case *inventory.ItemsCreatedEvent:
		fields = append(fields,
			zap.String("item_type_id", e.ItemTypeID.String()),
			zap.Int("count", e.Count),
			zap.String("created_by", e.CreatedBy.String()),
		)
	case *inventory.ItemsDeletedEvent:
		fields = append(fields,
			zap.String("item_type_id", e.ItemTypeID.String()),
			zap.Int("count", len(e.ItemIDs)),
			zap.String("deleted_by", e.DeletedBy.String()),
		)
	}

	h.logger.Info("inventory event", fields...)
	return nil
}
