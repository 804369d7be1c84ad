// Package datascope turns item visibility into GORM query scopes.
//
// Every item query in the persistence layer goes through one of these scopes,
// so a missing tenant or holder restriction shows up as an empty result rather
// than a data leak:
//
//	db.Scopes(datascope.Items(v)).Find(&items)
package datascope

import (
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// Items restricts an items query to what the visibility covers.
// An unknown scope matches nothing.
func Items(v inventory.Visibility) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch v.Scope {
		case inventory.ScopeAllTenants:
			return db
		case inventory.ScopeTenant:
			return db.Where("items.tenant_id = ?", v.TenantID)
		case inventory.ScopeHolder:
			return db.Where("items.tenant_id = ? AND items.holder_id = ?", v.TenantID, v.HolderID)
		}
		return db.Where("1 = 0")
	}
}

// Tenant restricts a query on a tenant-owned table
func Tenant(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// Selection applies a resolved bulk selection to an items query, without its limit
func Selection(sel inventory.Selection) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("items.tenant_id = ? AND items.item_type_id = ?", sel.TenantID, sel.ItemTypeID)
		if sel.Status != nil {
			db = db.Where("items.status = ?", sel.Status.String())
		}
		if sel.HolderID != nil {
			db = db.Where("items.holder_id = ?", *sel.HolderID)
		}
		return db
	}
}
