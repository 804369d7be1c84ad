package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// QuantityInput is a quantity given either as a raw count or as groups of a grouping
type QuantityInput struct {
	Quantity   int    `json:"quantity" binding:"omitempty,min=1"`
	GroupName  string `json:"group_name" binding:"omitempty,max=50"`
	GroupCount int    `json:"group_count" binding:"omitempty,min=1"`
}

// ToRequest converts the input into a domain quantity request
func (q QuantityInput) ToRequest() catalog.QuantityRequest {
	if q.GroupName != "" {
		return catalog.GroupedQuantity(q.GroupName, q.GroupCount)
	}
	return catalog.RawQuantity(q.Quantity)
}

// CreateItemsRequest creates new items in stock
type CreateItemsRequest struct {
	QuantityInput
	Notes string `json:"notes" binding:"max=500"`
}

// BulkStatusRequest moves a quantity of matching items to a new status
type BulkStatusRequest struct {
	QuantityInput
	CurrentStatus string           `json:"current_status" binding:"omitempty,item_status"`
	FilterHolder  *uuid.UUID       `json:"filter_holder_id"`
	TargetStatus  string           `json:"target_status" binding:"required,item_status"`
	HolderID      *uuid.UUID       `json:"holder_id"`
	SellPrice     *decimal.Decimal `json:"sell_price"`
	Notes         string           `json:"notes" binding:"max=500"`
}

// BulkDeleteRequest removes a quantity of matching unsold items
type BulkDeleteRequest struct {
	QuantityInput
	CurrentStatus string     `json:"current_status" binding:"omitempty,item_status"`
	FilterHolder  *uuid.UUID `json:"filter_holder_id"`
}

// SingleStatusRequest changes the status of one item
type SingleStatusRequest struct {
	TargetStatus string           `json:"target_status" binding:"required,item_status"`
	HolderID     *uuid.UUID       `json:"holder_id"`
	SellPrice    *decimal.Decimal `json:"sell_price"`
	Notes        string           `json:"notes" binding:"max=500"`
}

// ItemListFilter represents filter options for item lists
type ItemListFilter struct {
	ItemTypeID *uuid.UUID
	Status     string
	HolderID   *uuid.UUID
	Page       int
	PageSize   int
	OrderDir   string
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID         uuid.UUID        `json:"id"`
	TenantID   uuid.UUID        `json:"tenant_id"`
	ItemTypeID uuid.UUID        `json:"item_type_id"`
	Status     string           `json:"status"`
	HolderID   *uuid.UUID       `json:"holder_id,omitempty"`
	SellPrice  *decimal.Decimal `json:"sell_price,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Version    int              `json:"version"`
}

// HistoryEntryResponse represents one status history entry
type HistoryEntryResponse struct {
	Status    string     `json:"status"`
	At        time.Time  `json:"at"`
	ChangedBy uuid.UUID  `json:"changed_by"`
	HolderID  *uuid.UUID `json:"holder_id,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// ItemDetailResponse is an item with its full history
type ItemDetailResponse struct {
	ItemResponse
	History []HistoryEntryResponse `json:"history"`
}

// BulkResult is the outcome of a bulk create or status change
type BulkResult struct {
	Count  int            `json:"count"`
	Sample []ItemResponse `json:"sample"`
}

// BulkDeleteResult is the outcome of a bulk delete
type BulkDeleteResult struct {
	Deleted int `json:"deleted"`
}

// TypeSummaryResponse holds per-status counts of one item type
type TypeSummaryResponse struct {
	ItemTypeID   uuid.UUID `json:"item_type_id"`
	ItemTypeName string    `json:"item_type_name"`
	InInventory  int64     `json:"in_inventory"`
	WithEmployee int64     `json:"with_employee"`
	Sold         int64     `json:"sold"`
	Total        int64     `json:"total"`
}

// SummaryResponse aggregates counts for all visible item types
type SummaryResponse struct {
	Types       []TypeSummaryResponse `json:"types"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// ToItemResponse converts a domain item to a response
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		TenantID:   item.TenantID,
		ItemTypeID: item.ItemTypeID,
		Status:     item.Status().String(),
		HolderID:   item.Holder(),
		SellPrice:  item.SellPrice(),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
		Version:    item.Version,
	}
}

// ToHistoryResponses converts history entries to responses
func ToHistoryResponses(entries []inventory.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			Status:    e.Status.String(),
			At:        e.At,
			ChangedBy: e.ChangedBy,
			HolderID:  e.Holder,
			Notes:     e.Notes,
		}
	}
	return out
}

// ToItemDetailResponse converts a domain item including history
func ToItemDetailResponse(item *inventory.Item) ItemDetailResponse {
	return ItemDetailResponse{
		ItemResponse: ToItemResponse(item),
		History:      ToHistoryResponses(item.History),
	}
}
