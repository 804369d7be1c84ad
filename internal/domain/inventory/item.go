package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// HistoryEntry is one immutable record in an item's status history
type HistoryEntry struct {
	Status    Status
	At        time.Time
	ChangedBy uuid.UUID
	Holder    *uuid.UUID
	Notes     string
}

// Item is one physical, individually tracked unit
type Item struct {
	shared.TenantAggregateRoot
	ItemTypeID uuid.UUID
	State      State
	History    []HistoryEntry
}

// NewItem creates an item in stock with its initial history entry.
// IDs are time-ordered so items created in one batch keep their creation order.
func NewItem(tenantID, itemTypeID, createdBy uuid.UUID, notes string, at time.Time) *Item {
	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, at).WithCreator(createdBy),
		ItemTypeID:          itemTypeID,
		State:               InInventory{},
		History: []HistoryEntry{{
			Status:    StatusInInventory,
			At:        at,
			ChangedBy: createdBy,
			Notes:     notes,
		}},
	}
}

// Status returns the current status
func (i *Item) Status() Status {
	return i.State.Status()
}

// Holder returns the current holder or the employee who sold the item
func (i *Item) Holder() *uuid.UUID {
	return i.State.Holder()
}

// SellPrice returns the sale price of a sold item
func (i *Item) SellPrice() *decimal.Decimal {
	return i.State.SellPrice()
}

// IsHeldBy reports whether the given user is recorded as the item's holder
func (i *Item) IsHeldBy(userID uuid.UUID) bool {
	h := i.Holder()
	return h != nil && *h == userID
}

// clone returns a copy that shares no mutable slices with the receiver
func (i *Item) clone() *Item {
	c := *i
	c.History = make([]HistoryEntry, len(i.History), len(i.History)+1)
	copy(c.History, i.History)
	c.ClearDomainEvents()
	return &c
}
