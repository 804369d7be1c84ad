package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
)

// CreateTenantRequest registers a new agency
type CreateTenantRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest creates a user. TenantID is only honoured for super admins.
type CreateUserRequest struct {
	TenantID    *uuid.UUID `json:"tenant_id"`
	Username    string     `json:"username" binding:"required,min=3,max=100"`
	DisplayName string     `json:"display_name" binding:"max=100"`
	Role        string     `json:"role" binding:"required,oneof=OWNER EMPLOYEE"`
}

// UserListFilter represents filter options for user lists
type UserListFilter struct {
	Role     string `form:"role" binding:"omitempty,oneof=OWNER EMPLOYEE"`
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTenantResponse converts a domain tenant to a response
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.GetDisplayNameOrUsername(),
		Role:        u.Role.String(),
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
