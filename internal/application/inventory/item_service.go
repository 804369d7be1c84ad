package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Bulk operation names used for metrics and logs
const (
	OpCreate       = "create"
	OpUpdateStatus = "update_status"
	OpDelete       = "delete"
	OpUpdateSingle = "update_single"
)

// Config holds the tunables of the item service
type Config struct {
	SampleLimit     int
	MaxBulkQuantity int
	InsertBatchSize int
	ReturnPolicy    inventory.ReturnPolicy
}

// DefaultConfig returns the default service configuration
func DefaultConfig() Config {
	return Config{
		SampleLimit:     20,
		MaxBulkQuantity: 10000,
		InsertBatchSize: 500,
		ReturnPolicy:    inventory.DefaultReturnPolicy,
	}
}

// ItemTypeProvider loads item types, possibly from a cache
type ItemTypeProvider interface {
	// GetItemType returns an item type of a tenant
	GetItemType(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ItemType, error)
	// ItemTypeNames returns the names of the given item types
	ItemTypeNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// OperationRecorder observes bulk operation outcomes
type OperationRecorder interface {
	// RecordOperation records one bulk operation and the number of items it touched
	RecordOperation(op string, err error, items int)
	// RecordClaimLost records a bulk request that lost items to a concurrent request
	RecordClaimLost(op string)
}

// ItemService implements item lifecycle operations and the bulk reservation engine
type ItemService struct {
	itemRepo       inventory.ItemRepository
	txScope        TransactionScope
	itemTypes      ItemTypeProvider
	holders        identity.HolderDirectory
	eventPublisher shared.EventPublisher
	recorder       OperationRecorder
	cfg            Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo inventory.ItemRepository,
	txScope TransactionScope,
	itemTypes ItemTypeProvider,
	holders identity.HolderDirectory,
	cfg Config,
	logger *zap.Logger,
) *ItemService {
	if cfg.SampleLimit <= 0 {
		cfg.SampleLimit = DefaultConfig().SampleLimit
	}
	if cfg.InsertBatchSize <= 0 {
		cfg.InsertBatchSize = DefaultConfig().InsertBatchSize
	}
	if cfg.ReturnPolicy == "" {
		cfg.ReturnPolicy = inventory.DefaultReturnPolicy
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{
		itemRepo:  itemRepo,
		txScope:   txScope,
		itemTypes: itemTypes,
		holders:   holders,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRecorder sets the operation recorder
func (s *ItemService) SetRecorder(recorder OperationRecorder) {
	s.recorder = recorder
}

// CreateItems fabricates new items of a type in stock. Owner only.
func (s *ItemService) CreateItems(ctx context.Context, actor identity.Actor, itemTypeID uuid.UUID, req CreateItemsRequest) (result *BulkResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", OpCreate,
		telemetry.ItemTypeKey.String(itemTypeID.String()),
		telemetry.TenantKey.String(actor.TenantID.String()))
	defer func() {
		if result != nil {
			span.SetAttributes(telemetry.AffectedKey.Int(result.Count))
		}
		telemetry.EndSpan(span, err)
	}()

	defer func() { s.record(OpCreate, err, result) }()

	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied.WithMessage("Only owners can create items")
	}

	itemType, err := s.itemTypes.GetItemType(ctx, actor.TenantID, itemTypeID)
	if err != nil {
		return nil, err
	}
	if err := itemType.EnsureActive(); err != nil {
		return nil, err
	}
	n, err := catalog.ResolveQuantity(itemType, req.ToRequest(), s.cfg.MaxBulkQuantity)
	if err != nil {
		return nil, err
	}

	at := s.now()
	items := make([]*inventory.Item, n)
	for i := range items {
		items[i] = inventory.NewItem(actor.TenantID, itemTypeID, actor.UserID, req.Notes, at)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().CreateBatch(ctx, items, s.cfg.InsertBatchSize)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, inventory.NewItemsCreatedEvent(actor.TenantID, itemTypeID, actor.UserID, n))
	s.logger.Info("items created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("item_type_id", itemTypeID.String()),
		zap.String("quantity", req.ToRequest().String()),
		zap.Int("count", n),
	)

	return &BulkResult{Count: n, Sample: s.sample(items)}, nil
}

// BulkUpdateStatus selects exactly the requested quantity of matching items,
// validates every transition, and applies all of them atomically.
func (s *ItemService) BulkUpdateStatus(ctx context.Context, actor identity.Actor, itemTypeID uuid.UUID, req BulkStatusRequest) (result *BulkResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", OpUpdateStatus,
		telemetry.ItemTypeKey.String(itemTypeID.String()),
		telemetry.TenantKey.String(actor.TenantID.String()),
		telemetry.StatusKey.String(req.TargetStatus))
	defer func() {
		if result != nil {
			span.SetAttributes(telemetry.AffectedKey.Int(result.Count))
		}
		telemetry.EndSpan(span, err)
	}()

	defer func() { s.record(OpUpdateStatus, err, result) }()

	target, err := inventory.ParseStatus(req.TargetStatus)
	if err != nil {
		return nil, err
	}
	filter, err := parseBulkFilter(req.CurrentStatus, req.FilterHolder)
	if err != nil {
		return nil, err
	}
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeMutate)
	if err != nil {
		return nil, err
	}

	itemType, err := s.itemTypes.GetItemType(ctx, actor.TenantID, itemTypeID)
	if err != nil {
		return nil, err
	}
	n, err := catalog.ResolveQuantity(itemType, req.ToRequest(), s.cfg.MaxBulkQuantity)
	if err != nil {
		return nil, err
	}

	change, err := s.buildChange(ctx, actor, target, req.HolderID, req)
	if err != nil {
		return nil, err
	}

	sel, err := inventory.NewSelection(vis, itemTypeID, filter, n)
	if err != nil {
		return nil, err
	}

	var changes []inventory.Change
	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		candidates, err := repos.ItemRepo().SelectCandidates(ctx, sel)
		if err != nil {
			return err
		}
		if len(candidates) < n {
			return inventory.NewInsufficientInventoryError(len(candidates), n)
		}

		changes = make([]inventory.Change, 0, len(candidates))
		events = make([]shared.DomainEvent, 0, len(candidates))
		for _, item := range candidates {
			next, event, err := inventory.Transition(item, change, s.cfg.ReturnPolicy)
			if err != nil {
				return err
			}
			changes = append(changes, inventory.Change{Before: item, After: next})
			events = append(events, event)
		}

		return repos.ItemRepo().ApplyChanges(ctx, changes)
	})
	if err != nil {
		return nil, s.lostClaim(ctx, OpUpdateStatus, &sel, n, err)
	}

	s.publish(ctx, events...)

	after := make([]*inventory.Item, len(changes))
	for i, c := range changes {
		after[i] = c.After
	}
	return &BulkResult{Count: len(changes), Sample: s.sample(after)}, nil
}

// BulkDelete removes the requested quantity of matching items. Owner only.
// The request is refused entirely if any selected item is sold.
func (s *ItemService) BulkDelete(ctx context.Context, actor identity.Actor, itemTypeID uuid.UUID, req BulkDeleteRequest) (result *BulkDeleteResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", OpDelete,
		telemetry.ItemTypeKey.String(itemTypeID.String()),
		telemetry.TenantKey.String(actor.TenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	defer func() {
		deleted := 0
		if result != nil {
			deleted = result.Deleted
		}
		s.recordCount(OpDelete, err, deleted)
	}()

	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied.WithMessage("Only owners can delete items")
	}
	filter, err := parseBulkFilter(req.CurrentStatus, req.FilterHolder)
	if err != nil {
		return nil, err
	}
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeMutate)
	if err != nil {
		return nil, err
	}

	itemType, err := s.itemTypes.GetItemType(ctx, actor.TenantID, itemTypeID)
	if err != nil {
		return nil, err
	}
	n, err := catalog.ResolveQuantity(itemType, req.ToRequest(), s.cfg.MaxBulkQuantity)
	if err != nil {
		return nil, err
	}
	sel, err := inventory.NewSelection(vis, itemTypeID, filter, n)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		candidates, err := repos.ItemRepo().SelectCandidates(ctx, sel)
		if err != nil {
			return err
		}
		if len(candidates) < n {
			return inventory.NewInsufficientInventoryError(len(candidates), n)
		}

		sold := 0
		ids = make([]uuid.UUID, len(candidates))
		for i, item := range candidates {
			if item.Status() == inventory.StatusSold {
				sold++
			}
			ids[i] = item.ID
		}
		if sold > 0 {
			return inventory.ErrCannotDeleteSold.WithDetails(map[string]interface{}{"sold": sold})
		}

		return repos.ItemRepo().DeleteUnsold(ctx, actor.TenantID, ids)
	})
	if err != nil {
		return nil, s.lostClaim(ctx, OpDelete, &sel, n, err)
	}

	s.publish(ctx, inventory.NewItemsDeletedEvent(actor.TenantID, itemTypeID, actor.UserID, ids))
	return &BulkDeleteResult{Deleted: len(ids)}, nil
}

// UpdateSingleItem changes the status of one item
func (s *ItemService) UpdateSingleItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID, req SingleStatusRequest) (result *ItemDetailResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", OpUpdateSingle,
		telemetry.ItemKey.String(itemID.String()),
		telemetry.TenantKey.String(actor.TenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	defer func() {
		count := 0
		if result != nil {
			count = 1
		}
		s.recordCount(OpUpdateSingle, err, count)
	}()

	target, err := inventory.ParseStatus(req.TargetStatus)
	if err != nil {
		return nil, err
	}
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeMutate)
	if err != nil {
		return nil, err
	}
	change, err := s.buildChange(ctx, actor, target, req.HolderID, BulkStatusRequest{
		SellPrice: req.SellPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}

	var next *inventory.Item
	var event *inventory.ItemStatusChangedEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, vis, itemID)
		if err != nil {
			return err
		}
		next, event, err = inventory.Transition(item, change, s.cfg.ReturnPolicy)
		if err != nil {
			return err
		}
		return repos.ItemRepo().ApplyChanges(ctx, []inventory.Change{{Before: item, After: next}})
	})
	if err != nil {
		return nil, s.lostClaim(ctx, OpUpdateSingle, nil, 1, err)
	}

	s.publish(ctx, event)
	resp := ToItemDetailResponse(next)
	return &resp, nil
}

// GetItem returns one visible item with its history
func (s *ItemService) GetItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID) (*ItemDetailResponse, error) {
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeRead)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, vis, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToItemDetailResponse(item)
	return &resp, nil
}

// GetItemHistory returns the ordered status history of one visible item
func (s *ItemService) GetItemHistory(ctx context.Context, actor identity.Actor, itemID uuid.UUID) ([]HistoryEntryResponse, error) {
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeRead)
	if err != nil {
		return nil, err
	}
	entries, err := s.itemRepo.FindHistory(ctx, vis, itemID)
	if err != nil {
		return nil, err
	}
	return ToHistoryResponses(entries), nil
}

// ListItems lists visible items with pagination
func (s *ItemService) ListItems(ctx context.Context, actor identity.Actor, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeRead)
	if err != nil {
		return nil, err
	}

	f := inventory.ItemFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: filter.OrderDir,
		}.Normalize(shared.MaxPageSize),
		ItemTypeID: filter.ItemTypeID,
		HolderID:   filter.HolderID,
	}
	if filter.Status != "" {
		st, err := inventory.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}

	items, total, err := s.itemRepo.FindAll(ctx, vis, f)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ToItemResponse(item)
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// GetSummary returns per-type, per-status counts of the items visible to the actor
func (s *ItemService) GetSummary(ctx context.Context, actor identity.Actor, itemTypeID *uuid.UUID) (*SummaryResponse, error) {
	vis, err := inventory.VisibilityFor(actor, inventory.PurposeRead)
	if err != nil {
		return nil, err
	}
	counts, err := s.itemRepo.CountByTypeAndStatus(ctx, vis, itemTypeID)
	if err != nil {
		return nil, err
	}

	summaries := inventory.BuildSummary(counts)
	ids := make([]uuid.UUID, len(summaries))
	for i, sm := range summaries {
		ids[i] = sm.ItemTypeID
	}
	names, err := s.itemTypes.ItemTypeNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{
		Types:       make([]TypeSummaryResponse, len(summaries)),
		GeneratedAt: s.now(),
	}
	for i, sm := range summaries {
		resp.Types[i] = TypeSummaryResponse{
			ItemTypeID:   sm.ItemTypeID,
			ItemTypeName: names[sm.ItemTypeID],
			InInventory:  sm.InInventory,
			WithEmployee: sm.WithEmployee,
			Sold:         sm.Sold,
			Total:        sm.Total(),
		}
	}
	return resp, nil
}

// buildChange resolves the holder and assembles the per-item change request
func (s *ItemService) buildChange(ctx context.Context, actor identity.Actor, target inventory.Status, holderID *uuid.UUID, req BulkStatusRequest) (inventory.ChangeRequest, error) {
	change := inventory.ChangeRequest{
		Target: target,
		Price:  req.SellPrice,
		Notes:  req.Notes,
		Actor:  actor,
		At:     s.now(),
	}

	// employees receiving a return take it themselves
	if holderID == nil && target == inventory.StatusWithEmployee && actor.IsFieldEmployee() {
		self := actor.UserID
		holderID = &self
	}
	if holderID == nil {
		return change, nil
	}

	holder, err := s.holders.FindHolder(ctx, *holderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return change, inventory.ErrInvalidHolder.WithMessage("Holder does not exist")
		}
		return change, err
	}
	change.Holder = holder
	return change, nil
}

// lostClaim turns a claim lost to a concurrent request into an insufficient
// inventory error. It runs after the rollback, so available is a fresh count of
// the selection; a single-item claim (sel == nil) has nothing left by definition.
func (s *ItemService) lostClaim(ctx context.Context, op string, sel *inventory.Selection, requested int, err error) error {
	var lost *inventory.ClaimLostError
	if !errors.As(err, &lost) {
		return err
	}
	if s.recorder != nil {
		s.recorder.RecordClaimLost(op)
	}
	s.logger.Warn("bulk claim lost to a concurrent request",
		zap.String("operation", op),
		zap.Int("claimed", lost.Claimed),
		zap.Int("expected", lost.Expected),
	)

	available := 0
	if sel != nil {
		count, cerr := s.itemRepo.CountMatching(ctx, *sel)
		if cerr != nil {
			s.logger.Warn("recount after lost claim failed", zap.String("operation", op), zap.Error(cerr))
		} else {
			available = int(count)
		}
	}
	return inventory.NewInsufficientInventoryError(available, requested)
}

func (s *ItemService) sample(items []*inventory.Item) []ItemResponse {
	n := len(items)
	if n > s.cfg.SampleLimit {
		n = s.cfg.SampleLimit
	}
	out := make([]ItemResponse, n)
	for i := 0; i < n; i++ {
		out[i] = ToItemResponse(items[i])
	}
	return out
}

func (s *ItemService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish item events", zap.Error(err))
	}
}

func (s *ItemService) record(op string, err error, result *BulkResult) {
	count := 0
	if result != nil {
		count = result.Count
	}
	s.recordCount(op, err, count)
}

func (s *ItemService) recordCount(op string, err error, count int) {
	if s.recorder != nil {
		s.recorder.RecordOperation(op, err, count)
	}
}

func parseBulkFilter(currentStatus string, holderID *uuid.UUID) (inventory.BulkFilter, error) {
	filter := inventory.BulkFilter{HolderID: holderID}
	if currentStatus != "" {
		st, err := inventory.ParseStatus(currentStatus)
		if err != nil {
			return filter, err
		}
		filter.CurrentStatus = &st
	}
	return filter, nil
}
