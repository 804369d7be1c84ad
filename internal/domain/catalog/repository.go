package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// ItemTypeRepository defines persistence for item types
type ItemTypeRepository interface {
	// FindByIDForTenant finds an item type by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ItemType, error)

	// FindByIDs returns the item types with the given IDs in any tenant
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ItemType, error)

	// FindAll returns item types of a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ItemTypeFilter) ([]*ItemType, int64, error)

	// ExistsByName checks if a name is taken within a tenant, excluding one ID when set
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates an item type with its groupings
	Save(ctx context.Context, itemType *ItemType) error
}

// ItemTypeFilter contains filter options for listing item types
type ItemTypeFilter struct {
	shared.Filter
	Active *bool
}
