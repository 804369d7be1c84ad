package catalog

import (
	"fmt"
	"strings"

	"github.com/itemtrack/backend/internal/domain/shared"
)

// Quantity resolution errors
var (
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive whole number")
	ErrUnknownGrouping = shared.NewDomainError("UNKNOWN_GROUPING", "Grouping is not defined on the item type")
)

// QuantityRequest expresses a quantity either as a raw count or as a number of groups.
// GroupName set means a grouped request; otherwise Raw is used.
type QuantityRequest struct {
	Raw        int
	GroupName  string
	GroupCount int
}

// RawQuantity builds a raw quantity request
func RawQuantity(n int) QuantityRequest {
	return QuantityRequest{Raw: n}
}

// GroupedQuantity builds a grouped quantity request
func GroupedQuantity(groupName string, groupCount int) QuantityRequest {
	return QuantityRequest{GroupName: groupName, GroupCount: groupCount}
}

// IsGrouped reports whether the request names a grouping
func (q QuantityRequest) IsGrouped() bool {
	return strings.TrimSpace(q.GroupName) != ""
}

// String renders the request for logs
func (q QuantityRequest) String() string {
	if q.IsGrouped() {
		return fmt.Sprintf("%d x %s", q.GroupCount, q.GroupName)
	}
	return fmt.Sprintf("%d", q.Raw)
}

// ResolveQuantity turns a quantity request into a raw item count for the given type.
// maxQuantity caps the result; zero means no cap.
func ResolveQuantity(itemType *ItemType, req QuantityRequest, maxQuantity int) (int, error) {
	var n int
	if req.IsGrouped() {
		if req.GroupCount < 1 {
			return 0, ErrInvalidQuantity.WithMessage("Group count must be at least 1")
		}
		g, ok := itemType.GroupingByName(req.GroupName)
		if !ok {
			return 0, ErrUnknownGrouping.
				WithMessage(fmt.Sprintf("Grouping '%s' is not defined on item type %s", req.GroupName, itemType.Name)).
				WithDetails(map[string]interface{}{"grouping": req.GroupName})
		}
		// reject before multiplying so a huge count cannot wrap past the ceiling
		if maxQuantity > 0 && req.GroupCount > maxQuantity/g.UnitsPerGroup {
			return 0, exceedsMax(req, maxQuantity)
		}
		units, ok := g.ToUnits(req.GroupCount)
		if !ok {
			return 0, ErrInvalidQuantity.
				WithMessage(fmt.Sprintf("Quantity %s is too large", req)).
				WithDetails(map[string]interface{}{"group_count": req.GroupCount})
		}
		n = units
	} else {
		if req.Raw < 1 {
			return 0, ErrInvalidQuantity
		}
		n = req.Raw
	}

	if n < 1 {
		return 0, ErrInvalidQuantity
	}
	if maxQuantity > 0 && n > maxQuantity {
		return 0, exceedsMax(req, maxQuantity)
	}
	return n, nil
}

func exceedsMax(req QuantityRequest, maxQuantity int) error {
	return ErrInvalidQuantity.
		WithMessage(fmt.Sprintf("Quantity %s exceeds the maximum of %d items per request", req, maxQuantity)).
		WithDetails(map[string]interface{}{"quantity": req.String(), "max": maxQuantity})
}
