package datascope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type item struct {
	ID         string
	TenantID   string
	ItemTypeID string
	Status     string
	HolderID   *string
}

func (item) TableName() string { return "items" }

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestItems(t *testing.T) {
	tenantID := uuid.New()
	holderID := uuid.New()

	tests := []struct {
		name     string
		v        inventory.Visibility
		contains string
		vars     int
	}{
		{"all tenants adds no filter", inventory.Visibility{Scope: inventory.ScopeAllTenants}, "FROM `items`", 0},
		{"tenant scope filters by tenant", inventory.Visibility{Scope: inventory.ScopeTenant, TenantID: tenantID}, "items.tenant_id = ?", 1},
		{"holder scope filters by tenant and holder", inventory.Visibility{Scope: inventory.ScopeHolder, TenantID: tenantID, HolderID: holderID}, "items.holder_id = ?", 2},
		{"unknown scope matches nothing", inventory.Visibility{}, "1 = 0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := dryRun(t).Scopes(Items(tt.v)).Find(&[]item{}).Statement
			assert.Contains(t, stmt.SQL.String(), tt.contains)
			assert.Len(t, stmt.Vars, tt.vars)
		})
	}
}

func TestSelection(t *testing.T) {
	status := inventory.StatusWithEmployee
	holder := uuid.New()

	t.Run("type only", func(t *testing.T) {
		sel := inventory.Selection{TenantID: uuid.New(), ItemTypeID: uuid.New()}
		stmt := dryRun(t).Scopes(Selection(sel)).Find(&[]item{}).Statement
		assert.NotContains(t, stmt.SQL.String(), "items.status")
		assert.Len(t, stmt.Vars, 2)
	})

	t.Run("status and holder narrow the query", func(t *testing.T) {
		sel := inventory.Selection{TenantID: uuid.New(), ItemTypeID: uuid.New(), Status: &status, HolderID: &holder}
		stmt := dryRun(t).Scopes(Selection(sel)).Find(&[]item{}).Statement
		assert.Contains(t, stmt.SQL.String(), "items.status = ?")
		assert.Contains(t, stmt.SQL.String(), "items.holder_id = ?")
		assert.Len(t, stmt.Vars, 4)
	})
}
