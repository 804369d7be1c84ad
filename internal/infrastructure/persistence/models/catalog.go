package models

import (
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
)

// ItemTypeModel is the persistence model of an item type
type ItemTypeModel struct {
	TenantAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Active      bool            `gorm:"not null;index"`
	Groupings   []GroupingModel `gorm:"foreignKey:ItemTypeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ItemTypeModel) TableName() string {
	return "item_types"
}

// GroupingModel is one grouping row of an item type. Position keeps the
// order in which the owner defined the groupings.
type GroupingModel struct {
	ItemTypeID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position      int       `gorm:"primaryKey;autoIncrement:false"`
	Name          string    `gorm:"type:varchar(50);not null"`
	UnitsPerGroup int       `gorm:"not null"`
	WeightLabel   string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (GroupingModel) TableName() string {
	return "item_type_groupings"
}

// ToDomain converts the model to a domain item type. Groupings must be preloaded.
func (m *ItemTypeModel) ToDomain() *catalog.ItemType {
	groupings := make([]catalog.Grouping, len(m.Groupings))
	for i, g := range m.Groupings {
		groupings[i] = catalog.Grouping{
			Name:          g.Name,
			UnitsPerGroup: g.UnitsPerGroup,
			WeightLabel:   g.WeightLabel,
		}
	}
	return &catalog.ItemType{
		TenantAggregateRoot: m.toTenantAggregate(),
		Name:                m.Name,
		Description:         m.Description,
		Groupings:           groupings,
		Active:              m.Active,
	}
}

// ItemTypeModelFromDomain converts a domain item type to a model with its grouping rows
func ItemTypeModelFromDomain(it *catalog.ItemType) *ItemTypeModel {
	m := &ItemTypeModel{
		Name:        it.Name,
		Description: it.Description,
		Active:      it.Active,
		Groupings:   make([]GroupingModel, len(it.Groupings)),
	}
	m.fromTenantAggregate(it.TenantAggregateRoot)
	for i, g := range it.Groupings {
		m.Groupings[i] = GroupingModel{
			ItemTypeID:    it.ID,
			Position:      i,
			Name:          g.Name,
			UnitsPerGroup: g.UnitsPerGroup,
			WeightLabel:   g.WeightLabel,
		}
	}
	return m
}
