package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/infrastructure/auth"
	"github.com/itemtrack/backend/internal/infrastructure/logger"
	"github.com/itemtrack/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	ActorKey       = "actor"
	JWTClaimsKey   = "jwt_claims"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	TenantIDHeader = "X-Tenant-ID"
)

// TenantChecker reports whether a tenant exists
type TenantChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Tenants resolves the X-Tenant-ID header of impersonating super admins
	Tenants TenantChecker
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// Auth validates the bearer token and stores the resolved actor in the context.
// A super admin may send X-Tenant-ID to act on one tenant; the actor is then
// marked as impersonating and scoped to that tenant.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		for _, p := range cfg.SkipPaths {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" || !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}
		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, log, err, "Invalid identity claims")
			return
		}

		if header := c.GetHeader(TenantIDHeader); header != "" {
			if !actor.IsSuperAdmin() {
				// Ordinary users are bound to the tenant in their token
				if header != actor.TenantID.String() {
					abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden,
						"Tenant header does not match the authenticated tenant", nil)
					return
				}
			} else {
				tenantID, err := uuid.Parse(header)
				if err != nil {
					abortWithError(c, http.StatusBadRequest, "INVALID_TENANT", "X-Tenant-ID must be a UUID", nil)
					return
				}
				if cfg.Tenants != nil {
					exists, err := cfg.Tenants.Exists(c.Request.Context(), tenantID)
					if err != nil {
						log.Error("Failed to resolve impersonated tenant", zap.String("tenant_id", header), zap.Error(err))
						abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred", nil)
						return
					}
					if !exists {
						abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "Tenant not found", nil)
						return
					}
				}
				actor.TenantID = tenantID
				actor.Impersonating = true
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)

		ctx := logger.WithActor(c.Request.Context(), actor.TenantID.String(), actor.UserID.String(), actor.Role.String())
		c.Request = c.Request.WithContext(ctx)

		log.Debug("Authenticated request",
			zap.String("user_id", actor.UserID.String()),
			zap.String("role", actor.Role.String()),
			zap.Bool("impersonating", actor.Impersonating),
		)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidClaims):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, msg, nil)
}

// GetActor retrieves the authenticated actor from gin.Context
func GetActor(c *gin.Context) (identity.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(identity.Actor); ok {
			return actor, true
		}
	}
	return identity.Actor{}, false
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}
