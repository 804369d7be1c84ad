package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/datascope"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository and HolderDirectory using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(model).Error; err != nil {
		return mapError("save user", err)
	}
	return nil
}

// FindByIDForTenant finds a user within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Tenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, mapError("find user", err)
	}
	return model.ToDomain(), nil
}

// FindByID finds a user in any tenant
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapError("find user", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns the users of a tenant with pagination
func (r *GormUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(datascope.Tenant(tenantID))
	if filter.Role != nil {
		query = query.Where("role = ?", filter.Role.String())
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError("count users", err)
	}

	var rows []models.UserModel
	if err := query.
		Order(userSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Order(userSort.tiebreak()).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, mapError("list users", err)
	}

	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users, total, nil
}

// ExistsByUsername checks whether a username is taken within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Scopes(datascope.Tenant(tenantID)).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, mapError("check username", err)
	}
	return count > 0, nil
}

// FindHolder returns the holder view of a user
func (r *GormUserRepository) FindHolder(ctx context.Context, userID uuid.UUID) (*identity.Holder, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	holder := user.AsHolder()
	return &holder, nil
}

var (
	_ identity.UserRepository  = (*GormUserRepository)(nil)
	_ identity.HolderDirectory = (*GormUserRepository)(nil)
)
