package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService manages agencies. Only super admins may use it.
type TenantService struct {
	tenantRepo     identity.TenantRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo identity.TenantRepository, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{tenantRepo: tenantRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new tenant
func (s *TenantService) Create(ctx context.Context, actor identity.Actor, req CreateTenantRequest) (*TenantResponse, error) {
	if !actor.IsSuperAdmin() {
		return nil, shared.ErrAccessDenied.WithMessage("Only super admins can register agencies")
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	events := tenant.PullDomainEvents()
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish tenant events", zap.Error(err))
		}
	}

	s.logger.Info("tenant created", zap.String("tenant_id", tenant.ID.String()), zap.String("code", tenant.Code))
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// List returns all tenants
func (s *TenantService) List(ctx context.Context, actor identity.Actor, page, pageSize int) (*shared.Paginated[TenantResponse], error) {
	if !actor.IsSuperAdmin() {
		return nil, shared.ErrAccessDenied
	}

	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "code", OrderDir: "asc"}.Normalize(shared.MaxPageSize)
	tenants, total, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]TenantResponse, len(tenants))
	for i, t := range tenants {
		out[i] = ToTenantResponse(t)
	}
	result := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Exists reports whether an active tenant exists. Used to validate impersonation.
func (s *TenantService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return tenant.Active, nil
}
