package catalog

import (
	"github.com/itemtrack/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItemType = "ItemType"

// Event type constants
const (
	EventTypeItemTypeCreated     = "ItemTypeCreated"
	EventTypeItemTypeUpdated     = "ItemTypeUpdated"
	EventTypeItemTypeDeactivated = "ItemTypeDeactivated"
)

// ItemTypeCreatedEvent is raised when an item type is defined
type ItemTypeCreatedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	Groupings int    `json:"groupings"`
}

// NewItemTypeCreatedEvent creates a new ItemTypeCreatedEvent
func NewItemTypeCreatedEvent(it *ItemType) *ItemTypeCreatedEvent {
	return &ItemTypeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemTypeCreated, AggregateTypeItemType, it.ID, it.TenantID),
		Name:            it.Name,
		Groupings:       len(it.Groupings),
	}
}

// ItemTypeUpdatedEvent is raised when an item type's definition changes
type ItemTypeUpdatedEvent struct {
	shared.BaseDomainEvent
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Version int    `json:"version"`
}

// NewItemTypeUpdatedEvent creates a new ItemTypeUpdatedEvent
func NewItemTypeUpdatedEvent(it *ItemType) *ItemTypeUpdatedEvent {
	return &ItemTypeUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemTypeUpdated, AggregateTypeItemType, it.ID, it.TenantID),
		Name:            it.Name,
		Active:          it.Active,
		Version:         it.Version,
	}
}

// ItemTypeDeactivatedEvent is raised when an item type is soft-deleted
type ItemTypeDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemTypeDeactivatedEvent creates a new ItemTypeDeactivatedEvent
func NewItemTypeDeactivatedEvent(it *ItemType) *ItemTypeDeactivatedEvent {
	return &ItemTypeDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemTypeDeactivated, AggregateTypeItemType, it.ID, it.TenantID),
		Name:            it.Name,
	}
}
