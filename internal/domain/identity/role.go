package identity

import (
	"strings"

	"github.com/itemtrack/backend/internal/domain/shared"
)

// Role is the capability level of a user
type Role string

const (
	// RoleOwner manages a tenant's catalog and stock
	RoleOwner Role = "OWNER"
	// RoleEmployee is a field employee who holds and sells items
	RoleEmployee Role = "EMPLOYEE"
	// RoleSuperAdmin reads across all tenants
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole converts a string into a Role
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleOwner, RoleEmployee, RoleSuperAdmin:
		return r, nil
	}
	return "", shared.NewDomainError("INVALID_ROLE", "Role must be one of OWNER, EMPLOYEE, SUPER_ADMIN")
}

// IsValid reports whether the role is a known role
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}
