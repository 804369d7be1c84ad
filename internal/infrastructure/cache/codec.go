package cache

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// cachedItemType is the stored form of an item type. It is kept separate from
// the domain struct so that cached bytes survive changes to aggregate internals.
type cachedItemType struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    uuid.UUID          `json:"tenant_id"`
	CreatedBy   *uuid.UUID         `json:"created_by,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Groupings   []catalog.Grouping `json:"groupings"`
	Active      bool               `json:"active"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func encodeItemType(it *catalog.ItemType) ([]byte, error) {
	return json.Marshal(cachedItemType{
		ID:          it.ID,
		TenantID:    it.TenantID,
		CreatedBy:   it.CreatedBy,
		Name:        it.Name,
		Description: it.Description,
		Groupings:   it.Groupings,
		Active:      it.Active,
		Version:     it.Version,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	})
}

func decodeItemType(data []byte) (*catalog.ItemType, error) {
	var c cachedItemType
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &catalog.ItemType{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
				Version:    c.Version,
			},
			TenantID:  c.TenantID,
			CreatedBy: c.CreatedBy,
		},
		Name:        c.Name,
		Description: c.Description,
		Groupings:   c.Groupings,
		Active:      c.Active,
	}, nil
}
