package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
)

// GroupingInput describes one grouping of an item type
type GroupingInput struct {
	Name          string `json:"name" binding:"required,max=50"`
	UnitsPerGroup int    `json:"units_per_group" binding:"required,min=1"`
	WeightLabel   string `json:"weight_label" binding:"max=50"`
}

// CreateItemTypeRequest represents a request to create an item type
type CreateItemTypeRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Groupings   []GroupingInput `json:"groupings" binding:"omitempty,dive"`
}

// UpdateItemTypeRequest represents a request to rename or re-describe an item type
type UpdateItemTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// SetGroupingsRequest replaces the groupings of an item type
type SetGroupingsRequest struct {
	Groupings []GroupingInput `json:"groupings" binding:"dive"`
}

// ItemTypeListFilter represents filter options for item type lists
type ItemTypeListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemTypeResponse represents an item type in API responses
type ItemTypeResponse struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    uuid.UUID          `json:"tenant_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Groupings   []catalog.Grouping `json:"groupings"`
	Active      bool               `json:"active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ToItemTypeResponse converts a domain item type to a response
func ToItemTypeResponse(it *catalog.ItemType) ItemTypeResponse {
	groupings := it.Groupings
	if groupings == nil {
		groupings = []catalog.Grouping{}
	}
	return ItemTypeResponse{
		ID:          it.ID,
		TenantID:    it.TenantID,
		Name:        it.Name,
		Description: it.Description,
		Groupings:   groupings,
		Active:      it.Active,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		Version:     it.Version,
	}
}

func toGroupings(inputs []GroupingInput) ([]catalog.Grouping, error) {
	out := make([]catalog.Grouping, 0, len(inputs))
	for _, in := range inputs {
		g, err := catalog.NewGrouping(in.Name, in.UnitsPerGroup, in.WeightLabel)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
