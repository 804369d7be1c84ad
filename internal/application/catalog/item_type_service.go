package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ItemTypeCache caches item types by ID. Lookups that fail for any reason
// are reported as misses.
type ItemTypeCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.ItemType, bool)
	Set(ctx context.Context, itemType *catalog.ItemType)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// ItemTypeService handles item type operations
type ItemTypeService struct {
	repo           catalog.ItemTypeRepository
	cache          ItemTypeCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewItemTypeService creates a new ItemTypeService. cache may be nil.
func NewItemTypeService(repo catalog.ItemTypeRepository, cache ItemTypeCache, logger *zap.Logger) *ItemTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemTypeService{repo: repo, cache: cache, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ItemTypeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new item type. Owner only.
func (s *ItemTypeService) Create(ctx context.Context, actor identity.Actor, req CreateItemTypeRequest) (*ItemTypeResponse, error) {
	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied.WithMessage("Only owners can manage item types")
	}

	exists, err := s.repo.ExistsByName(ctx, actor.TenantID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Item type with this name already exists")
	}

	groupings, err := toGroupings(req.Groupings)
	if err != nil {
		return nil, err
	}
	itemType, err := catalog.NewItemType(actor.TenantID, req.Name, req.Description, groupings)
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID
	itemType.CreatedBy = &createdBy

	if err := s.repo.Save(ctx, itemType); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, itemType)

	resp := ToItemTypeResponse(itemType)
	return &resp, nil
}

// Update renames or re-describes an item type. Owner only.
func (s *ItemTypeService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateItemTypeRequest) (*ItemTypeResponse, error) {
	return s.mutate(ctx, actor, id, func(it *catalog.ItemType) error {
		exists, err := s.repo.ExistsByName(ctx, actor.TenantID, req.Name, &id)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrAlreadyExists.WithMessage("Item type with this name already exists")
		}
		return it.Update(req.Name, req.Description)
	})
}

// SetGroupings replaces the groupings of an item type. Owner only.
func (s *ItemTypeService) SetGroupings(ctx context.Context, actor identity.Actor, id uuid.UUID, req SetGroupingsRequest) (*ItemTypeResponse, error) {
	groupings, err := toGroupings(req.Groupings)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, func(it *catalog.ItemType) error {
		return it.SetGroupings(groupings)
	})
}

// Deactivate soft-deletes an item type. Owner only.
func (s *ItemTypeService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ItemTypeResponse, error) {
	return s.mutate(ctx, actor, id, func(it *catalog.ItemType) error {
		return it.Deactivate()
	})
}

// Activate re-enables an item type. Owner only.
func (s *ItemTypeService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ItemTypeResponse, error) {
	return s.mutate(ctx, actor, id, func(it *catalog.ItemType) error {
		return it.Activate()
	})
}

// GetByID returns an item type visible to the actor
func (s *ItemTypeService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ItemTypeResponse, error) {
	if actor.IsSuperAdmin() && !actor.Impersonating {
		types, err := s.repo.FindByIDs(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return nil, shared.ErrNotFound
		}
		resp := ToItemTypeResponse(types[0])
		return &resp, nil
	}

	it, err := s.GetItemType(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemTypeResponse(it)
	return &resp, nil
}

// List returns the item types of the actor's tenant
func (s *ItemTypeService) List(ctx context.Context, actor identity.Actor, filter ItemTypeListFilter) (*shared.Paginated[ItemTypeResponse], error) {
	if actor.TenantID == uuid.Nil {
		return nil, shared.ErrAccessDenied.WithMessage("A tenant is required to list item types")
	}

	f := catalog.ItemTypeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(shared.MaxPageSize),
		Active: filter.Active,
	}
	if f.OrderBy == "" {
		f.OrderBy = "name"
		if filter.OrderDir == "" {
			f.OrderDir = "asc"
		}
	}

	types, total, err := s.repo.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return nil, err
	}
	out := make([]ItemTypeResponse, len(types))
	for i, it := range types {
		out[i] = ToItemTypeResponse(it)
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// GetItemType loads an item type of a tenant, consulting the cache first
func (s *ItemTypeService) GetItemType(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ItemType, error) {
	if s.cache != nil {
		if it, ok := s.cache.Get(ctx, id); ok {
			if it.TenantID != tenantID {
				return nil, shared.ErrNotFound
			}
			return it, nil
		}
	}

	it, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, it)
	}
	return it, nil
}

// ItemTypeNames returns the names of the given item types across tenants
func (s *ItemTypeService) ItemTypeNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if s.cache != nil {
			if it, ok := s.cache.Get(ctx, id); ok {
				names[id] = it.Name
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names, nil
	}

	types, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, it := range types {
		names[it.ID] = it.Name
		if s.cache != nil {
			s.cache.Set(ctx, it)
		}
	}
	return names, nil
}

func (s *ItemTypeService) mutate(ctx context.Context, actor identity.Actor, id uuid.UUID, fn func(*catalog.ItemType) error) (*ItemTypeResponse, error) {
	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied.WithMessage("Only owners can manage item types")
	}

	it, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(it); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, it); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.publishEvents(ctx, it)

	resp := ToItemTypeResponse(it)
	return &resp, nil
}

func (s *ItemTypeService) publishEvents(ctx context.Context, it *catalog.ItemType) {
	events := it.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish item type events",
			zap.String("item_type_id", it.ID.String()),
			zap.Error(err),
		)
	}
}
