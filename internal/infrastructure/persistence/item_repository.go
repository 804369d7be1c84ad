package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/datascope"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// inChunkSize bounds the number of ids bound into one IN clause
const inChunkSize = 1000

const historyBatchSize = 500

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx returns a new repository bound to a transaction
func (r *GormItemRepository) WithTx(tx *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: tx}
}

// FindByID finds a visible item with its history
func (r *GormItemRepository) FindByID(ctx context.Context, v inventory.Visibility, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Items(v)).
		Where("items.id = ?", id).
		First(&model).Error; err != nil {
		return nil, mapError("find item", err)
	}

	history, err := r.loadHistory(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(history[id])
}

// FindByIDs loads the items of a tenant with history, in the order of ids.
// Missing ids are skipped.
func (r *GormItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*inventory.Item, error) {
	if len(ids) == 0 {
		return []*inventory.Item{}, nil
	}

	byID := make(map[uuid.UUID]models.ItemModel, len(ids))
	for _, chunk := range chunkIDs(ids) {
		var batch []models.ItemModel
		if err := r.db.WithContext(ctx).
			Scopes(datascope.Tenant(tenantID)).
			Where("id IN ?", chunk).
			Find(&batch).Error; err != nil {
			return nil, mapError("find items", err)
		}
		for _, m := range batch {
			byID[m.ID] = m
		}
	}

	history, err := r.loadHistory(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*inventory.Item, 0, len(byID))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		item, err := m.ToDomain(history[id])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// FindAll lists visible items with pagination
func (r *GormItemRepository) FindAll(ctx context.Context, v inventory.Visibility, filter inventory.ItemFilter) ([]*inventory.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemModel{}).Scopes(datascope.Items(v))
	if filter.ItemTypeID != nil {
		query = query.Where("items.item_type_id = ?", *filter.ItemTypeID)
	}
	if filter.Status != nil {
		query = query.Where("items.status = ?", filter.Status.String())
	}
	if filter.HolderID != nil {
		query = query.Where("items.holder_id = ?", *filter.HolderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError("count items", err)
	}

	var rows []models.ItemModel
	if err := query.
		Order(itemSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Order(itemSort.tiebreak()).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, mapError("list items", err)
	}

	items := make([]*inventory.Item, len(rows))
	for i := range rows {
		item, err := rows[i].ToDomain(nil)
		if err != nil {
			return nil, 0, err
		}
		items[i] = item
	}
	return items, total, nil
}

// FindHistory returns the ordered history of a visible item
func (r *GormItemRepository) FindHistory(ctx context.Context, v inventory.Visibility, id uuid.UUID) ([]inventory.HistoryEntry, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Scopes(datascope.Items(v)).
		Where("items.id = ?", id).
		Count(&count).Error; err != nil {
		return nil, mapError("find item", err)
	}
	if count == 0 {
		return nil, shared.ErrNotFound
	}

	history, err := r.loadHistory(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	entries := make([]inventory.HistoryEntry, len(history[id]))
	for i := range history[id] {
		entries[i] = history[id][i].ToDomain()
	}
	return entries, nil
}

// SelectCandidates returns up to sel.Limit matching items, oldest first.
// On PostgreSQL the rows stay locked until the enclosing transaction ends and
// rows locked by a concurrent request are skipped.
func (r *GormItemRepository) SelectCandidates(ctx context.Context, sel inventory.Selection) ([]*inventory.Item, error) {
	if sel.Limit <= 0 {
		return []*inventory.Item{}, nil
	}

	query := r.db.WithContext(ctx).
		Scopes(datascope.Selection(sel)).
		Order("items.created_at ASC").
		Order("items.id ASC").
		Limit(sel.Limit)
	if r.supportsSkipLocked() {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}

	var rows []models.ItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, mapError("select candidates", err)
	}

	items := make([]*inventory.Item, len(rows))
	for i := range rows {
		item, err := rows[i].ToDomain(nil)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// CountMatching counts items matching the selection
func (r *GormItemRepository) CountMatching(ctx context.Context, sel inventory.Selection) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Scopes(datascope.Selection(sel)).
		Count(&count).Error; err != nil {
		return 0, mapError("count matching", err)
	}
	return count, nil
}

// CreateBatch inserts items and their history rows in batches
func (r *GormItemRepository) CreateBatch(ctx context.Context, items []*inventory.Item, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = historyBatchSize
	}

	rows := make([]*models.ItemModel, len(items))
	var history []*models.ItemHistoryModel
	for i, item := range items {
		rows[i] = models.ItemModelFromDomain(item)
		for _, e := range item.History {
			history = append(history, models.HistoryModelFromDomain(item, e))
		}
	}

	db := r.db.WithContext(ctx)
	if err := db.CreateInBatches(rows, batchSize).Error; err != nil {
		return mapError("create items", err)
	}
	if len(history) > 0 {
		if err := db.CreateInBatches(history, batchSize).Error; err != nil {
			return mapError("create item history", err)
		}
	}
	return nil
}

// changeGroup is a set of items receiving the same column update
type changeGroup struct {
	tenantID uuid.UUID
	from     inventory.Status
	after    *inventory.Item
	ids      []uuid.UUID
}

type changeKey struct {
	tenantID uuid.UUID
	from     inventory.Status
	to       inventory.Status
	holder   string
	price    string
	at       int64
}

func keyOf(c inventory.Change) changeKey {
	k := changeKey{
		tenantID: c.Before.TenantID,
		from:     c.Before.Status(),
		to:       c.After.Status(),
		at:       c.After.UpdatedAt.UnixNano(),
	}
	if h := c.After.Holder(); h != nil {
		k.holder = h.String()
	}
	if p := c.After.SellPrice(); p != nil {
		k.price = p.String()
	}
	return k
}

// ApplyChanges claims the items with one guarded UPDATE per group of identical
// changes and appends one history row per item. The guard on the prior status
// makes a concurrent change of any item visible as a row count shortfall.
func (r *GormItemRepository) ApplyChanges(ctx context.Context, changes []inventory.Change) error {
	if len(changes) == 0 {
		return nil
	}

	groups := make(map[changeKey]*changeGroup)
	order := make([]changeKey, 0)
	for _, c := range changes {
		k := keyOf(c)
		g, ok := groups[k]
		if !ok {
			g = &changeGroup{tenantID: c.Before.TenantID, from: c.Before.Status(), after: c.After}
			groups[k] = g
			order = append(order, k)
		}
		g.ids = append(g.ids, c.After.ID)
	}

	db := r.db.WithContext(ctx)
	claimed := 0
	for _, k := range order {
		g := groups[k]
		updates := map[string]any{
			"status":     g.after.Status().String(),
			"holder_id":  nullableUUID(g.after.Holder()),
			"sell_price": nil,
			"updated_at": g.after.UpdatedAt,
			"version":    gorm.Expr("version + 1"),
		}
		if p := g.after.SellPrice(); p != nil {
			updates["sell_price"] = *p
		}

		for _, chunk := range chunkIDs(g.ids) {
			res := db.Model(&models.ItemModel{}).
				Where("tenant_id = ? AND id IN ? AND status = ?", g.tenantID, chunk, g.from.String()).
				Updates(updates)
			if res.Error != nil {
				return mapError("claim items", res.Error)
			}
			claimed += int(res.RowsAffected)
			if int(res.RowsAffected) != len(chunk) {
				return &inventory.ClaimLostError{Claimed: claimed, Expected: len(changes)}
			}
		}
	}

	rows := make([]*models.ItemHistoryModel, len(changes))
	for i, c := range changes {
		row, err := models.LatestHistory(c.After)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	if err := db.CreateInBatches(rows, historyBatchSize).Error; err != nil {
		return mapError("append item history", err)
	}
	return nil
}

// DeleteUnsold removes the items and their history unless any is sold or gone
func (r *GormItemRepository) DeleteUnsold(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	deleted := 0
	for _, chunk := range chunkIDs(ids) {
		res := db.Where("tenant_id = ? AND id IN ? AND status <> ?", tenantID, chunk, inventory.StatusSold.String()).
			Delete(&models.ItemModel{})
		if res.Error != nil {
			return mapError("delete items", res.Error)
		}
		deleted += int(res.RowsAffected)
		if int(res.RowsAffected) != len(chunk) {
			return &inventory.ClaimLostError{Claimed: deleted, Expected: len(ids)}
		}
		if err := db.Where("item_id IN ?", chunk).Delete(&models.ItemHistoryModel{}).Error; err != nil {
			return mapError("delete item history", err)
		}
	}
	return nil
}

type statusCountRow struct {
	ItemTypeID uuid.UUID
	Status     string
	Count      int64
}

// CountByTypeAndStatus groups visible items by type and status
func (r *GormItemRepository) CountByTypeAndStatus(ctx context.Context, v inventory.Visibility, itemTypeID *uuid.UUID) ([]inventory.StatusCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Scopes(datascope.Items(v)).
		Select("items.item_type_id AS item_type_id, items.status AS status, COUNT(*) AS count").
		Group("items.item_type_id, items.status")
	if itemTypeID != nil {
		query = query.Where("items.item_type_id = ?", *itemTypeID)
	}

	var rows []statusCountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, mapError("count items by status", err)
	}

	counts := make([]inventory.StatusCount, len(rows))
	for i, row := range rows {
		counts[i] = inventory.StatusCount{
			ItemTypeID: row.ItemTypeID,
			Status:     inventory.Status(row.Status),
			Count:      row.Count,
		}
	}
	return counts, nil
}

// loadHistory returns the history rows of the given items, oldest first
func (r *GormItemRepository) loadHistory(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.ItemHistoryModel, error) {
	result := make(map[uuid.UUID][]models.ItemHistoryModel, len(ids))
	for _, chunk := range chunkIDs(ids) {
		var rows []models.ItemHistoryModel
		if err := r.db.WithContext(ctx).
			Where("item_id IN ?", chunk).
			Order("at ASC").
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return nil, mapError("load item history", err)
		}
		for _, row := range rows {
			result[row.ItemID] = append(result[row.ItemID], row)
		}
	}
	return result, nil
}

func (r *GormItemRepository) supportsSkipLocked() bool {
	return r.db.Dialector != nil && r.db.Dialector.Name() == "postgres"
}

func chunkIDs(ids []uuid.UUID) [][]uuid.UUID {
	chunks := make([][]uuid.UUID, 0, len(ids)/inChunkSize+1)
	for start := 0; start < len(ids); start += inChunkSize {
		end := min(start+inChunkSize, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
