package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/itemtrack/backend/internal/domain/shared"
)

// Aggregate type constant for Tenant
const AggregateTypeTenant = "Tenant"

// EventTypeTenantCreated is published when an agency is registered
const EventTypeTenantCreated = "TenantCreated"

var tenantCodePattern = regexp.MustCompile(`^[A-Z0-9_\-]+$`)

// Tenant represents an agency, the isolation boundary for all items and users
type Tenant struct {
	shared.BaseAggregateRoot
	Code   string
	Name   string
	Active bool
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 || !tenantCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 1-50 letters, digits, underscores or hyphens")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name must be 1-200 characters")
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(time.Now().UTC()),
		Code:              code,
		Name:              name,
		Active:            true,
	}
	t.AddDomainEvent(&TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
	})
	return t, nil
}

// Deactivate disables the tenant
func (t *Tenant) Deactivate() error {
	if !t.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	t.Active = false
	t.Touch(time.Now().UTC())
	return nil
}

// TenantCreatedEvent is published when a tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}
