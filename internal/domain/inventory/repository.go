package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// Change pairs an item's state before and after a transition
type Change struct {
	Before *Item
	After  *Item
}

// ItemFilter contains filter options for listing items
type ItemFilter struct {
	shared.Filter
	ItemTypeID *uuid.UUID
	Status     *Status
	HolderID   *uuid.UUID
}

// ItemRepository defines persistence for items and their history
type ItemRepository interface {
	// FindByID finds an item by ID including its history, restricted to the visibility
	FindByID(ctx context.Context, v Visibility, id uuid.UUID) (*Item, error)

	// FindByIDs loads items with history, preserving the order of ids
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Item, error)

	// FindAll lists visible items with pagination; history is not loaded
	FindAll(ctx context.Context, v Visibility, filter ItemFilter) ([]*Item, int64, error)

	// FindHistory returns the ordered history of one item
	FindHistory(ctx context.Context, v Visibility, id uuid.UUID) ([]HistoryEntry, error)

	// SelectCandidates returns up to sel.Limit matching items, oldest created first,
	// locking them for the rest of the enclosing transaction where the store supports it.
	// History is not loaded.
	SelectCandidates(ctx context.Context, sel Selection) ([]*Item, error)

	// CountMatching counts items matching the selection, ignoring its limit
	CountMatching(ctx context.Context, sel Selection) (int64, error)

	// CreateBatch inserts new items with their initial history entries
	CreateBatch(ctx context.Context, items []*Item, batchSize int) error

	// ApplyChanges claims every item with an update guarded on its prior status and
	// appends the new history entries. A claim that matches fewer rows than expected
	// returns *ClaimLostError.
	ApplyChanges(ctx context.Context, changes []Change) error

	// DeleteUnsold removes the given items unless they are sold. A count mismatch
	// returns *ClaimLostError.
	DeleteUnsold(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error

	// CountByTypeAndStatus groups visible items by type and status
	CountByTypeAndStatus(ctx context.Context, v Visibility, itemTypeID *uuid.UUID) ([]StatusCount, error)
}
