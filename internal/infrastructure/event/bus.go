package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Bus delivers domain events to subscribers synchronously, in publish order.
// Services publish only after their transaction has committed, so a failing
// subscriber never affects stored state; failures are logged and counted.
type Bus struct {
	registry  *Registry
	logger    *zap.Logger
	delivered atomic.Int64
	failed    atomic.Int64
}

// NewBus creates a new in-process event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{registry: NewRegistry(), logger: logger}
}

// Publish delivers every event to its handlers
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.For(event.EventType()) {
			if err := b.deliver(ctx, handler, event); err != nil {
				b.failed.Add(1)
				b.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.Error(err),
				)
				continue
			}
			b.delivered.Add(1)
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own EventTypes are used.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Add(handler, eventTypes...)
	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Stats returns the number of successful and failed deliveries so far
func (b *Bus) Stats() (delivered, failed int64) {
	return b.delivered.Load(), b.failed.Load()
}

func (b *Bus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*Bus)(nil)
