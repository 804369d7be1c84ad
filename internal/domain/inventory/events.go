package inventory

import (
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemsCreated      = "ItemsCreated"
	EventTypeItemStatusChanged = "ItemStatusChanged"
	EventTypeItemsDeleted      = "ItemsDeleted"
)

// ItemStatusChangedEvent is raised once per item per transition
type ItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	ItemTypeID     uuid.UUID        `json:"item_type_id"`
	FromStatus     Status           `json:"from_status"`
	ToStatus       Status           `json:"to_status"`
	PreviousHolder *uuid.UUID       `json:"previous_holder,omitempty"`
	Holder         *uuid.UUID       `json:"holder,omitempty"`
	SellPrice      *decimal.Decimal `json:"sell_price,omitempty"`
	ChangedBy      uuid.UUID        `json:"changed_by"`
	IsReturn       bool             `json:"is_return"`
}

// NewItemStatusChangedEvent creates a new ItemStatusChangedEvent
func NewItemStatusChangedEvent(before, after *Item, changedBy uuid.UUID) *ItemStatusChangedEvent {
	return &ItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemStatusChanged, AggregateTypeItem, after.ID, after.TenantID),
		ItemTypeID:      after.ItemTypeID,
		FromStatus:      before.Status(),
		ToStatus:        after.Status(),
		PreviousHolder:  before.Holder(),
		Holder:          after.Holder(),
		SellPrice:       after.SellPrice(),
		ChangedBy:       changedBy,
		IsReturn:        before.Status() == StatusSold && after.Status() == StatusWithEmployee,
	}
}

// ItemsCreatedEvent is raised once per bulk creation
type ItemsCreatedEvent struct {
	shared.BaseDomainEvent
	ItemTypeID uuid.UUID `json:"item_type_id"`
	Count      int       `json:"count"`
	CreatedBy  uuid.UUID `json:"created_by"`
}

// NewItemsCreatedEvent creates a new ItemsCreatedEvent keyed on the item type
func NewItemsCreatedEvent(tenantID, itemTypeID, createdBy uuid.UUID, count int) *ItemsCreatedEvent {
	return &ItemsCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemsCreated, AggregateTypeItem, itemTypeID, tenantID),
		ItemTypeID:      itemTypeID,
		Count:           count,
		CreatedBy:       createdBy,
	}
}

// ItemsDeletedEvent is raised once per bulk deletion
type ItemsDeletedEvent struct {
	shared.BaseDomainEvent
	ItemTypeID uuid.UUID   `json:"item_type_id"`
	ItemIDs    []uuid.UUID `json:"item_ids"`
	DeletedBy  uuid.UUID   `json:"deleted_by"`
}

// NewItemsDeletedEvent creates a new ItemsDeletedEvent keyed on the item type
func NewItemsDeletedEvent(tenantID, itemTypeID, deletedBy uuid.UUID, ids []uuid.UUID) *ItemsDeletedEvent {
	return &ItemsDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemsDeleted, AggregateTypeItem, itemTypeID, tenantID),
		ItemTypeID:      itemTypeID,
		ItemIDs:         ids,
		DeletedBy:       deletedBy,
	}
}
