package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemTypeRepository is a mock implementation of catalog.ItemTypeRepository
type MockItemTypeRepository struct {
	mock.Mock
}

func (m *MockItemTypeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ItemType, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ItemType), args.Error(1)
}

func (m *MockItemTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.ItemType, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.ItemType), args.Error(1)
}

func (m *MockItemTypeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ItemTypeFilter) ([]*catalog.ItemType, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*catalog.ItemType), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemTypeRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemTypeRepository) Save(ctx context.Context, itemType *catalog.ItemType) error {
	args := m.Called(ctx, itemType)
	return args.Error(0)
}

// mapCache is a trivial ItemTypeCache for tests
type mapCache struct {
	items       map[uuid.UUID]*catalog.ItemType
	invalidated []uuid.UUID
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[uuid.UUID]*catalog.ItemType)}
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (*catalog.ItemType, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *mapCache) Set(_ context.Context, it *catalog.ItemType) { c.items[it.ID] = it }

func (c *mapCache) Invalidate(_ context.Context, id uuid.UUID) {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
}

func newItemType(t *testing.T, tenantID uuid.UUID, name string) *catalog.ItemType {
	t.Helper()
	it, err := catalog.NewItemType(tenantID, name, "", nil)
	require.NoError(t, err)
	it.ClearDomainEvents()
	return it
}

func TestItemTypeService_Create(t *testing.T) {
	tenantID := uuid.New()
	owner := identity.NewActor(tenantID, uuid.New(), identity.RoleOwner)

	t.Run("creates item type with groupings", func(t *testing.T) {
		repo := new(MockItemTypeRepository)
		svc := NewItemTypeService(repo, nil, nil)
		repo.On("ExistsByName", mock.Anything, tenantID, "Chocolate", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ItemType")).Return(nil)

		resp, err := svc.Create(context.Background(), owner, CreateItemTypeRequest{
			Name:      "Chocolate",
			Groupings: []GroupingInput{{Name: "box", UnitsPerGroup: 16, WeightLabel: "8kg"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "Chocolate", resp.Name)
		assert.True(t, resp.Active)
		require.Len(t, resp.Groupings, 1)
		assert.Equal(t, 16, resp.Groupings[0].UnitsPerGroup)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name is refused", func(t *testing.T) {
		repo := new(MockItemTypeRepository)
		svc := NewItemTypeService(repo, nil, nil)
		repo.On("ExistsByName", mock.Anything, tenantID, "Chocolate", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(context.Background(), owner, CreateItemTypeRequest{Name: "Chocolate"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate grouping names are refused", func(t *testing.T) {
		repo := new(MockItemTypeRepository)
		svc := NewItemTypeService(repo, nil, nil)
		repo.On("ExistsByName", mock.Anything, tenantID, "Chocolate", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(context.Background(), owner, CreateItemTypeRequest{
			Name: "Chocolate",
			Groupings: []GroupingInput{
				{Name: "Box", UnitsPerGroup: 16},
				{Name: "box", UnitsPerGroup: 12},
			},
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "DUPLICATE_GROUPING", de.Code)
	})

	t.Run("employees cannot create", func(t *testing.T) {
		svc := NewItemTypeService(new(MockItemTypeRepository), nil, nil)
		employee := identity.NewActor(tenantID, uuid.New(), identity.RoleEmployee)

		_, err := svc.Create(context.Background(), employee, CreateItemTypeRequest{Name: "Chocolate"})

		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}

func TestItemTypeService_Deactivate(t *testing.T) {
	tenantID := uuid.New()
	owner := identity.NewActor(tenantID, uuid.New(), identity.RoleOwner)
	it := newItemType(t, tenantID, "Vanilla")
	repo := new(MockItemTypeRepository)
	cache := newMapCache()
	cache.Set(context.Background(), it)
	svc := NewItemTypeService(repo, cache, nil)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, it.ID).Return(it, nil)
	repo.On("Save", mock.Anything, it).Return(nil)

	resp, err := svc.Deactivate(context.Background(), owner, it.ID)

	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.Equal(t, []uuid.UUID{it.ID}, cache.invalidated)

	_, err = svc.Deactivate(context.Background(), owner, it.ID)
	assert.Error(t, err)
}

func TestItemTypeService_GetItemType(t *testing.T) {
	tenantID := uuid.New()

	t.Run("cache miss loads and fills the cache", func(t *testing.T) {
		it := newItemType(t, tenantID, "Vanilla")
		repo := new(MockItemTypeRepository)
		cache := newMapCache()
		svc := NewItemTypeService(repo, cache, nil)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, it.ID).Return(it, nil).Once()

		got, err := svc.GetItemType(context.Background(), tenantID, it.ID)
		require.NoError(t, err)
		assert.Equal(t, it.ID, got.ID)

		_, err = svc.GetItemType(context.Background(), tenantID, it.ID)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "FindByIDForTenant", 1)
	})

	t.Run("cached type of another tenant is not found", func(t *testing.T) {
		it := newItemType(t, uuid.New(), "Vanilla")
		cache := newMapCache()
		cache.Set(context.Background(), it)
		svc := NewItemTypeService(new(MockItemTypeRepository), cache, nil)

		_, err := svc.GetItemType(context.Background(), tenantID, it.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestItemTypeService_ItemTypeNames(t *testing.T) {
	cached := newItemType(t, uuid.New(), "Cached")
	stored := newItemType(t, uuid.New(), "Stored")
	repo := new(MockItemTypeRepository)
	cache := newMapCache()
	cache.Set(context.Background(), cached)
	svc := NewItemTypeService(repo, cache, nil)
	repo.On("FindByIDs", mock.Anything, []uuid.UUID{stored.ID}).Return([]*catalog.ItemType{stored}, nil)

	names, err := svc.ItemTypeNames(context.Background(), []uuid.UUID{cached.ID, stored.ID})

	require.NoError(t, err)
	assert.Equal(t, "Cached", names[cached.ID])
	assert.Equal(t, "Stored", names[stored.ID])
}
