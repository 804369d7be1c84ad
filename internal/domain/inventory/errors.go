package inventory

import (
	"errors"
	"fmt"

	"github.com/itemtrack/backend/internal/domain/shared"
)

// Lifecycle errors
var (
	ErrInvalidStatus         = shared.NewDomainError("INVALID_STATUS", "Status must be one of IN_INVENTORY, WITH_EMPLOYEE, SOLD")
	ErrInvalidTransition     = shared.NewDomainError("INVALID_TRANSITION", "Requested status change is not permitted from the current status")
	ErrAlreadySold           = shared.NewDomainError("ALREADY_SOLD", "Item is already sold")
	ErrInvalidHolder         = shared.NewDomainError("INVALID_HOLDER", "Holder must be a field employee of the same tenant")
	ErrInvalidPrice          = shared.NewDomainError("INVALID_PRICE", "Sell price must be a non-negative amount and is only recorded on sale")
	ErrInsufficientInventory = shared.NewDomainError("INSUFFICIENT_INVENTORY", "Not enough matching items are available")
	ErrCannotDeleteSold      = shared.NewDomainError("CANNOT_DELETE_SOLD", "Sold items cannot be deleted")
	ErrInconsistentState     = shared.NewDomainError("INCONSISTENT_STATE", "Stored item state does not match its status")
)

// NewInsufficientInventoryError reports how many items matched against how many were requested
func NewInsufficientInventoryError(available, requested int) *shared.DomainError {
	return ErrInsufficientInventory.
		WithMessage(fmt.Sprintf("Only %d matching items are available, %d requested", available, requested)).
		WithDetails(map[string]interface{}{
			"available": available,
			"requested": requested,
		})
}

// InsufficientCounts extracts available and requested counts from an insufficient inventory error
func InsufficientCounts(err error) (available, requested int, ok bool) {
	var de *shared.DomainError
	if !errors.As(err, &de) || de.Code != ErrInsufficientInventory.Code || de.Details == nil {
		return 0, 0, false
	}
	available, ok1 := de.Details["available"].(int)
	requested, ok2 := de.Details["requested"].(int)
	return available, requested, ok1 && ok2
}

// ClaimLostError is returned by the store when a conditional claim matched fewer
// rows than expected because another request changed the items first.
type ClaimLostError struct {
	Claimed  int
	Expected int
}

func (e *ClaimLostError) Error() string {
	return fmt.Sprintf("claimed %d of %d items", e.Claimed, e.Expected)
}
