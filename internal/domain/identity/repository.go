package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// TenantRepository defines persistence for tenants
type TenantRepository interface {
	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// FindByID finds a tenant by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindAll returns tenants with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Tenant, int64, error)

	// FindAllIDs returns the IDs of every active tenant
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
}

// UserRepository defines persistence for users
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByID finds a user by ID in any tenant
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindAll returns the users of a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter UserFilter) ([]*User, int64, error)

	// ExistsByUsername checks if a username is taken within a tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role   *Role
	Active *bool
}

// HolderDirectory resolves holder candidates for lifecycle validation
type HolderDirectory interface {
	// FindHolder returns the holder view of a user. A user outside the tenant
	// is returned as-is so callers can reject it explicitly.
	FindHolder(ctx context.Context, userID uuid.UUID) (*Holder, error)
}
