package inventory

import (
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// Scope is the breadth of items an actor may see
type Scope string

const (
	// ScopeAllTenants covers every tenant (super-admin reads)
	ScopeAllTenants Scope = "ALL_TENANTS"
	// ScopeTenant covers every item of one tenant
	ScopeTenant Scope = "TENANT"
	// ScopeHolder covers only items a given employee holds or sold
	ScopeHolder Scope = "HOLDER"
)

// Purpose distinguishes reads from mutations when computing visibility
type Purpose int

const (
	PurposeRead Purpose = iota
	PurposeMutate
)

// Visibility is the set of items an actor may see or reserve
type Visibility struct {
	Scope    Scope
	TenantID uuid.UUID
	HolderID uuid.UUID
}

// VisibilityFor computes the visibility of an actor for a purpose
func VisibilityFor(actor identity.Actor, purpose Purpose) (Visibility, error) {
	switch {
	case actor.IsSuperAdmin() && !actor.Impersonating:
		if purpose == PurposeMutate {
			return Visibility{}, shared.ErrAccessDenied.WithMessage("Super admins must impersonate a tenant to change stock")
		}
		return Visibility{Scope: ScopeAllTenants}, nil
	case actor.IsOwner():
		return Visibility{Scope: ScopeTenant, TenantID: actor.TenantID}, nil
	case actor.IsFieldEmployee():
		return Visibility{Scope: ScopeHolder, TenantID: actor.TenantID, HolderID: actor.UserID}, nil
	}
	return Visibility{}, shared.ErrAccessDenied
}

// Allows reports whether a single item falls inside the visibility
func (v Visibility) Allows(item *Item) bool {
	switch v.Scope {
	case ScopeAllTenants:
		return true
	case ScopeTenant:
		return item.TenantID == v.TenantID
	case ScopeHolder:
		return item.TenantID == v.TenantID && item.IsHeldBy(v.HolderID)
	}
	return false
}

// BulkFilter narrows a bulk request beyond the item type
type BulkFilter struct {
	CurrentStatus *Status
	HolderID      *uuid.UUID
}

// Selection is the fully resolved candidate filter handed to the store
type Selection struct {
	TenantID   uuid.UUID
	ItemTypeID uuid.UUID
	Status     *Status
	HolderID   *uuid.UUID
	Limit      int
}

// NewSelection combines visibility and the caller's filter into a store selection.
// Employees are always narrowed to their own items.
func NewSelection(v Visibility, itemTypeID uuid.UUID, filter BulkFilter, limit int) (Selection, error) {
	if v.Scope == ScopeAllTenants {
		return Selection{}, shared.ErrAccessDenied.WithMessage("Bulk selection requires a tenant scope")
	}
	if filter.CurrentStatus != nil && !filter.CurrentStatus.IsValid() {
		return Selection{}, ErrInvalidStatus
	}

	sel := Selection{
		TenantID:   v.TenantID,
		ItemTypeID: itemTypeID,
		Status:     filter.CurrentStatus,
		HolderID:   filter.HolderID,
		Limit:      limit,
	}
	if v.Scope == ScopeHolder {
		if filter.HolderID != nil && *filter.HolderID != v.HolderID {
			return Selection{}, shared.ErrAccessDenied.WithMessage("Employees can only select items in their care")
		}
		holder := v.HolderID
		sel.HolderID = &holder
	}
	return sel, nil
}
