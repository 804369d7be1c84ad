package persistence

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated in-memory database
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

// newMockPostgresDB returns a postgres-dialect GORM handle over sqlmock
func newMockPostgresDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

// stockFixture is one tenant with an owner, an employee and an item type
type stockFixture struct {
	db       *gorm.DB
	repo     *GormItemRepository
	tenantID uuid.UUID
	owner    identity.Actor
	employee *identity.User
	itemType *catalog.ItemType
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	return newStockFixtureOn(t, newSQLiteDB(t))
}

func newStockFixtureOn(t *testing.T, db *gorm.DB) *stockFixture {
	t.Helper()
	ctx := context.Background()

	tenant, err := identity.NewTenant("AGENCY_"+strings.ToUpper(uuid.NewString()[:8]), "Agency One")
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(ctx, tenant))

	ownerUser, err := identity.NewUser(tenant.ID, "owner", "Owner", identity.RoleOwner)
	require.NoError(t, err)
	employee, err := identity.NewUser(tenant.ID, "field.rep", "Field Rep", identity.RoleEmployee)
	require.NoError(t, err)
	users := NewGormUserRepository(db)
	require.NoError(t, users.Save(ctx, ownerUser))
	require.NoError(t, users.Save(ctx, employee))

	box, err := catalog.NewGrouping("box", 16, "2kg")
	require.NoError(t, err)
	itemType, err := catalog.NewItemType(tenant.ID, "Widget", "", []catalog.Grouping{box})
	require.NoError(t, err)
	require.NoError(t, NewGormItemTypeRepository(db).Save(ctx, itemType))

	return &stockFixture{
		db:       db,
		repo:     NewGormItemRepository(db),
		tenantID: tenant.ID,
		owner:    identity.NewActor(tenant.ID, ownerUser.ID, identity.RoleOwner),
		employee: employee,
		itemType: itemType,
	}
}

// seed inserts n in-stock items created at the given time
func (f *stockFixture) seed(t *testing.T, n int, at time.Time) []*inventory.Item {
	t.Helper()
	items := make([]*inventory.Item, n)
	for i := range items {
		items[i] = inventory.NewItem(f.tenantID, f.itemType.ID, f.owner.UserID, "seed", at)
	}
	require.NoError(t, f.repo.CreateBatch(context.Background(), items, 7))
	return items
}

func (f *stockFixture) holder() *identity.Holder {
	h := f.employee.AsHolder()
	return &h
}

// transition builds the changes moving every item to target
func (f *stockFixture) transition(t *testing.T, items []*inventory.Item, req inventory.ChangeRequest) []inventory.Change {
	t.Helper()
	if req.Actor.UserID == uuid.Nil {
		req.Actor = f.owner
	}
	if req.At.IsZero() {
		req.At = time.Now().UTC()
	}
	changes := make([]inventory.Change, len(items))
	for i, item := range items {
		after, _, err := inventory.Transition(item, req, inventory.DefaultReturnPolicy)
		require.NoError(t, err)
		changes[i] = inventory.Change{Before: item, After: after}
	}
	return changes
}

func (f *stockFixture) tenantView() inventory.Visibility {
	return inventory.Visibility{Scope: inventory.ScopeTenant, TenantID: f.tenantID}
}

func (f *stockFixture) selection(status *inventory.Status, holder *uuid.UUID, limit int) inventory.Selection {
	return inventory.Selection{
		TenantID:   f.tenantID,
		ItemTypeID: f.itemType.ID,
		Status:     status,
		HolderID:   holder,
		Limit:      limit,
	}
}

func statusPtr(s inventory.Status) *inventory.Status {
	return &s
}
