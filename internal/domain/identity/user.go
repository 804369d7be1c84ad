package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserDeactivated = "UserDeactivated"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a person acting inside a tenant
type User struct {
	shared.TenantAggregateRoot
	Username    string
	DisplayName string
	Role        Role
	Active      bool
}

// NewUser creates a new active user in a tenant
func NewUser(tenantID uuid.UUID, username, displayName string, role Role) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of OWNER, EMPLOYEE, SUPER_ADMIN")
	}
	if len(displayName) > 100 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 100 characters")
	}

	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, time.Now().UTC()),
		Username:            strings.TrimSpace(username),
		DisplayName:         strings.TrimSpace(displayName),
		Role:                role,
		Active:              true,
	}
	u.AddDomainEvent(&UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
		Role:            u.Role,
	})
	return u, nil
}

// Deactivate disables the user. A deactivated employee can no longer receive items.
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Active = false
	u.Touch(time.Now().UTC())
	u.AddDomainEvent(&UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
	})
	return nil
}

// IsFieldEmployee reports whether the user may hold items
func (u *User) IsFieldEmployee() bool {
	return u.Active && u.Role == RoleEmployee
}

// AsHolder returns the holder view of the user used by lifecycle validation
func (u *User) AsHolder() Holder {
	return Holder{
		UserID:        u.ID,
		TenantID:      u.TenantID,
		FieldEmployee: u.IsFieldEmployee(),
	}
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Holder is the minimal identity information needed to validate an item holder
type Holder struct {
	UserID        uuid.UUID
	TenantID      uuid.UUID
	FieldEmployee bool
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}
