package catalog

import (
	"math"
	"strings"

	"github.com/itemtrack/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Grouping is a named bulk unit of an item type (e.g., 1 box = 16 units)
type Grouping struct {
	Name          string `json:"name"`
	UnitsPerGroup int    `json:"units_per_group"`
	WeightLabel   string `json:"weight_label,omitempty"`
}

// NewGrouping creates a validated grouping
func NewGrouping(name string, unitsPerGroup int, weightLabel string) (Grouping, error) {
	g := Grouping{
		Name:          strings.TrimSpace(name),
		UnitsPerGroup: unitsPerGroup,
		WeightLabel:   strings.TrimSpace(weightLabel),
	}
	if err := g.Validate(); err != nil {
		return Grouping{}, err
	}
	return g, nil
}

// Validate checks the grouping invariants
func (g Grouping) Validate() error {
	if g.Name == "" {
		return shared.NewDomainError("INVALID_GROUPING", "Grouping name cannot be empty")
	}
	if len(g.Name) > 50 {
		return shared.NewDomainError("INVALID_GROUPING", "Grouping name cannot exceed 50 characters")
	}
	if g.UnitsPerGroup < 1 {
		return shared.NewDomainError("INVALID_GROUPING", "Units per group must be at least 1")
	}
	if len(g.WeightLabel) > 50 {
		return shared.NewDomainError("INVALID_GROUPING", "Weight label cannot exceed 50 characters")
	}
	return nil
}

// Matches reports whether the grouping has the given name, ignoring case
func (g Grouping) Matches(name string) bool {
	return foldName(g.Name) == foldName(name)
}

// ToUnits converts a number of groups into a raw unit count. ok is false when
// the product is not positive or does not fit in an int.
func (g Grouping) ToUnits(groupCount int) (units int, ok bool) {
	if groupCount < 1 || g.UnitsPerGroup < 1 || groupCount > math.MaxInt/g.UnitsPerGroup {
		return 0, false
	}
	return groupCount * g.UnitsPerGroup, true
}

// foldName returns the case-folded form used for grouping name comparison
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
