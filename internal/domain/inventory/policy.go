package inventory

import (
	"strings"

	"github.com/itemtrack/backend/internal/domain/shared"
)

// ReturnPolicy decides who may bring a sold item back to an employee
type ReturnPolicy string

const (
	// ReturnPolicyPermissive accepts a return to any field employee of the tenant
	ReturnPolicyPermissive ReturnPolicy = "permissive"
	// ReturnPolicySameHolder requires the return to go back to the employee who sold the item
	ReturnPolicySameHolder ReturnPolicy = "same_holder"
	// ReturnPolicyOwnerOnly only lets tenant owners process returns
	ReturnPolicyOwnerOnly ReturnPolicy = "owner_only"
)

// DefaultReturnPolicy is used when nothing is configured
const DefaultReturnPolicy = ReturnPolicySameHolder

// ParseReturnPolicy converts a configuration string into a ReturnPolicy
func ParseReturnPolicy(s string) (ReturnPolicy, error) {
	switch p := ReturnPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReturnPolicyPermissive, ReturnPolicySameHolder, ReturnPolicyOwnerOnly:
		return p, nil
	case "":
		return DefaultReturnPolicy, nil
	}
	return "", shared.ErrInvalidInput.WithMessage("Return policy must be one of permissive, same_holder, owner_only")
}
