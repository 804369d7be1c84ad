package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model of one tracked item. Status, holder and
// price are flattened columns so that selection and claims run in SQL.
type ItemModel struct {
	TenantAggregateModel
	ItemTypeID uuid.UUID        `gorm:"type:uuid;not null;index:idx_items_selection,priority:1"`
	Status     string           `gorm:"type:varchar(20);not null;index:idx_items_selection,priority:2"`
	HolderID   *uuid.UUID       `gorm:"type:uuid;index"`
	SellPrice  *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ItemHistoryModel is one append-only history row
type ItemHistoryModel struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	ItemID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null"`
	Status    string     `gorm:"type:varchar(20);not null"`
	At        time.Time  `gorm:"not null"`
	ChangedBy uuid.UUID  `gorm:"type:uuid;not null"`
	HolderID  *uuid.UUID `gorm:"type:uuid"`
	Notes     string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ItemHistoryModel) TableName() string {
	return "item_history"
}

// ToDomain converts the model and its ordered history rows to a domain item
func (m *ItemModel) ToDomain(history []ItemHistoryModel) (*inventory.Item, error) {
	state, err := inventory.StateFromParts(inventory.Status(m.Status), m.HolderID, m.SellPrice)
	if err != nil {
		return nil, err
	}

	item := &inventory.Item{
		TenantAggregateRoot: m.toTenantAggregate(),
		ItemTypeID:          m.ItemTypeID,
		State:               state,
	}
	if len(history) > 0 {
		item.History = make([]inventory.HistoryEntry, len(history))
		for i, h := range history {
			item.History[i] = h.ToDomain()
		}
	}
	return item, nil
}

// ItemModelFromDomain converts a domain item to a model
func ItemModelFromDomain(item *inventory.Item) *ItemModel {
	m := &ItemModel{
		ItemTypeID: item.ItemTypeID,
		Status:     item.Status().String(),
		HolderID:   item.Holder(),
		SellPrice:  item.SellPrice(),
	}
	m.fromTenantAggregate(item.TenantAggregateRoot)
	return m
}

// ToDomain converts a history row to a domain entry
func (h *ItemHistoryModel) ToDomain() inventory.HistoryEntry {
	return inventory.HistoryEntry{
		Status:    inventory.Status(h.Status),
		At:        h.At,
		ChangedBy: h.ChangedBy,
		Holder:    h.HolderID,
		Notes:     h.Notes,
	}
}

// HistoryModelFromDomain converts a domain entry of an item to a history row
func HistoryModelFromDomain(item *inventory.Item, e inventory.HistoryEntry) *ItemHistoryModel {
	return &ItemHistoryModel{
		ItemID:    item.ID,
		TenantID:  item.TenantID,
		Status:    e.Status.String(),
		At:        e.At,
		ChangedBy: e.ChangedBy,
		HolderID:  e.Holder,
		Notes:     e.Notes,
	}
}

// LatestHistory returns the row of the most recent entry of an item
func LatestHistory(item *inventory.Item) (*ItemHistoryModel, error) {
	if len(item.History) == 0 {
		return nil, shared.ErrInvalidState.WithMessage("item has no history entry to persist")
	}
	return HistoryModelFromDomain(item, item.History[len(item.History)-1]), nil
}
