package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management and resolves item holders
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a user. Owners create employees of their own tenant;
// super admins create owners of any tenant.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	tenantID := actor.TenantID
	switch {
	case actor.IsSuperAdmin() && !actor.Impersonating:
		if req.TenantID == nil {
			return nil, shared.ErrInvalidInput.WithMessage("tenant_id is required")
		}
		tenantID = *req.TenantID
	case actor.IsOwner():
		if role != identity.RoleEmployee {
			return nil, shared.ErrAccessDenied.WithMessage("Owners can only create employees")
		}
	default:
		return nil, shared.ErrAccessDenied
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Username is already taken")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.DisplayName, role)
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID
	user.CreatedBy = &createdBy

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.logger.Info("user created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", role.String()),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns the users of the actor's tenant. Owners only.
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied
	}

	f := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "username",
			OrderDir: "asc",
			Search:   filter.Search,
		}.Normalize(shared.MaxPageSize),
		Active: filter.Active,
	}
	if filter.Role != "" {
		role, err := identity.ParseRole(filter.Role)
		if err != nil {
			return nil, err
		}
		f.Role = &role
	}

	users, total, err := s.userRepo.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	result := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &result, nil
}

// Deactivate disables a user of the actor's tenant. Owners only.
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsOwner() {
		return nil, shared.ErrAccessDenied
	}
	if id == actor.UserID {
		return nil, shared.ErrInvalidInput.WithMessage("Cannot deactivate yourself")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// FindHolder returns the holder view of any user
func (s *UserService) FindHolder(ctx context.Context, userID uuid.UUID) (*identity.Holder, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	holder := user.AsHolder()
	return &holder, nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish user events", zap.Error(err))
	}
}

var _ identity.HolderDirectory = (*UserService)(nil)
