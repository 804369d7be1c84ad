package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/datascope"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemTypeRepository implements ItemTypeRepository using GORM
type GormItemTypeRepository struct {
	db *gorm.DB
}

// NewGormItemTypeRepository creates a new GormItemTypeRepository
func NewGormItemTypeRepository(db *gorm.DB) *GormItemTypeRepository {
	return &GormItemTypeRepository{db: db}
}

func orderedGroupings(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDForTenant finds an item type within a tenant
func (r *GormItemTypeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ItemType, error) {
	var model models.ItemTypeModel
	if err := r.db.WithContext(ctx).
		Preload("Groupings", orderedGroupings).
		Scopes(datascope.Tenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, mapError("find item type", err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the item types with the given IDs in any tenant
func (r *GormItemTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.ItemType, error) {
	if len(ids) == 0 {
		return []*catalog.ItemType{}, nil
	}
	var rows []models.ItemTypeModel
	if err := r.db.WithContext(ctx).
		Preload("Groupings", orderedGroupings).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, mapError("find item types", err)
	}
	result := make([]*catalog.ItemType, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAll returns the item types of a tenant with pagination. Search matches
// the name case-insensitively.
func (r *GormItemTypeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ItemTypeFilter) ([]*catalog.ItemType, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemTypeModel{}).Scopes(datascope.Tenant(tenantID))
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError("count item types", err)
	}

	var rows []models.ItemTypeModel
	if err := query.
		Preload("Groupings", orderedGroupings).
		Order(itemTypeSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Order(itemTypeSort.tiebreak()).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, mapError("list item types", err)
	}

	result := make([]*catalog.ItemType, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, total, nil
}

// ExistsByName checks whether a name is taken within a tenant, ignoring case
func (r *GormItemTypeRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ItemTypeModel{}).
		Scopes(datascope.Tenant(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, mapError("check item type name", err)
	}
	return count > 0, nil
}

// Save upserts the item type and replaces its grouping rows
func (r *GormItemTypeRepository) Save(ctx context.Context, itemType *catalog.ItemType) error {
	model := models.ItemTypeModelFromDomain(itemType)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(model).Error; err != nil {
			return mapError("save item type", err)
		}
		if err := tx.Where("item_type_id = ?", model.ID).Delete(&models.GroupingModel{}).Error; err != nil {
			return mapError("clear groupings", err)
		}
		if len(model.Groupings) == 0 {
			return nil
		}
		if err := tx.Create(&model.Groupings).Error; err != nil {
			return mapError("save groupings", err)
		}
		return nil
	})
}

var _ catalog.ItemTypeRepository = (*GormItemTypeRepository)(nil)
