package identity

import (
	"github.com/google/uuid"
)

// Actor is the caller of an operation as resolved from the identity provider.
// TenantID is the tenant the call acts on; for an impersonating super-admin it is
// the impersonated tenant.
type Actor struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	Role          Role
	Impersonating bool
}

// NewActor creates an actor for a user acting inside their own tenant
func NewActor(tenantID, userID uuid.UUID, role Role) Actor {
	return Actor{TenantID: tenantID, UserID: userID, Role: role}
}

// IsOwner reports whether the actor has tenant owner capability.
// An impersonating super-admin acts with owner rights.
func (a Actor) IsOwner() bool {
	return a.Role == RoleOwner || (a.Role == RoleSuperAdmin && a.Impersonating)
}

// IsFieldEmployee reports whether the actor has the field employee capability
func (a Actor) IsFieldEmployee() bool {
	return a.Role == RoleEmployee
}

// IsSuperAdmin reports whether the actor is a cross-tenant super admin
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// CanMutate reports whether the actor may change stock at all
func (a Actor) CanMutate() bool {
	if a.Role == RoleSuperAdmin {
		return a.Impersonating
	}
	return a.Role == RoleOwner || a.Role == RoleEmployee
}

// CanReadTenant reports whether the actor may read data of the given tenant
func (a Actor) CanReadTenant(tenantID uuid.UUID) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	return a.TenantID == tenantID
}

// SameTenant reports whether the given tenant is the one the actor acts on
func (a Actor) SameTenant(tenantID uuid.UUID) bool {
	return a.TenantID == tenantID
}
