package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// ItemType is a product definition owned by a tenant. It is the template for
// individually tracked items and is never hard-deleted.
type ItemType struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Groupings   []Grouping
	Active      bool
}

// NewItemType creates a new active item type
func NewItemType(tenantID uuid.UUID, name, description string, groupings []Grouping) (*ItemType, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateGroupings(groupings); err != nil {
		return nil, err
	}

	it := &ItemType{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, time.Now().UTC()),
		Name:                name,
		Description:         strings.TrimSpace(description),
		Groupings:           copyGroupings(groupings),
		Active:              true,
	}
	it.AddDomainEvent(NewItemTypeCreatedEvent(it))
	return it, nil
}

// Update changes the name and description
func (it *ItemType) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}

	it.Name = name
	it.Description = strings.TrimSpace(description)
	it.touch()
	it.AddDomainEvent(NewItemTypeUpdatedEvent(it))
	return nil
}

// SetGroupings replaces the grouping list
func (it *ItemType) SetGroupings(groupings []Grouping) error {
	if err := validateGroupings(groupings); err != nil {
		return err
	}
	it.Groupings = copyGroupings(groupings)
	it.touch()
	it.AddDomainEvent(NewItemTypeUpdatedEvent(it))
	return nil
}

// Deactivate soft-deletes the item type. Existing items keep referencing it.
func (it *ItemType) Deactivate() error {
	if !it.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Item type is already inactive")
	}
	it.Active = false
	it.touch()
	it.AddDomainEvent(NewItemTypeDeactivatedEvent(it))
	return nil
}

// Activate re-enables a deactivated item type
func (it *ItemType) Activate() error {
	if it.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Item type is already active")
	}
	it.Active = true
	it.touch()
	it.AddDomainEvent(NewItemTypeUpdatedEvent(it))
	return nil
}

// GroupingByName looks up a grouping case-insensitively
func (it *ItemType) GroupingByName(name string) (Grouping, bool) {
	for _, g := range it.Groupings {
		if g.Matches(name) {
			return g, true
		}
	}
	return Grouping{}, false
}

// EnsureActive fails when new stock cannot be created for the type
func (it *ItemType) EnsureActive() error {
	if !it.Active {
		return shared.ErrInvalidState.WithMessage("Item type " + it.Name + " is inactive")
	}
	return nil
}

func (it *ItemType) touch() {
	it.Touch(time.Now().UTC())
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item type name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item type name cannot exceed 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	return nil
}

// validateGroupings checks each grouping and name uniqueness within the type
func validateGroupings(groupings []Grouping) error {
	seen := make(map[string]struct{}, len(groupings))
	for _, g := range groupings {
		if err := g.Validate(); err != nil {
			return err
		}
		key := foldName(g.Name)
		if _, dup := seen[key]; dup {
			return shared.NewDomainError("DUPLICATE_GROUPING", "Grouping name '"+g.Name+"' is defined more than once")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func copyGroupings(groupings []Grouping) []Grouping {
	out := make([]Grouping, 0, len(groupings))
	for _, g := range groupings {
		out = append(out, Grouping{
			Name:          strings.TrimSpace(g.Name),
			UnitsPerGroup: g.UnitsPerGroup,
			WeightLabel:   strings.TrimSpace(g.WeightLabel),
		})
	}
	return out
}
