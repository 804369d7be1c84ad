package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itemtrack/backend/internal/infrastructure/auth"
	"github.com/itemtrack/backend/internal/infrastructure/logger"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"github.com/itemtrack/backend/internal/interfaces/http/dto"
	"github.com/itemtrack/backend/internal/interfaces/http/handler"
	"github.com/itemtrack/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler served by the API
type Handlers struct {
	Tenants   *handler.TenantHandler
	Users     *handler.UserHandler
	ItemTypes *handler.ItemTypeHandler
	Items     *handler.ItemHandler
	System    *handler.SystemHandler
}

// EngineConfig configures the gin engine and its middleware chain
type EngineConfig struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	Tenants        middleware.TenantChecker
	Metrics        *telemetry.Metrics
	MetricsPath    string
	Tracing        middleware.TracingConfig
	MaxBodySize    int64
	TrustedProxies []string
}

const apiHealthPath = "/api/v1/health"

// NewEngine builds the gin engine with the global middleware chain and all routes
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		middleware.Metrics(cfg.Metrics),
		middleware.Secure(),
		middleware.BodyLimit(cfg.MaxBodySize),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Fail(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c), nil))
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	r := NewRouter(engine, WithMiddleware(
		middleware.Auth(middleware.AuthConfig{
			JWTService: cfg.JWTService,
			Tenants:    cfg.Tenants,
			SkipPaths:  []string{apiHealthPath},
			Logger:     log.Named("auth"),
		}),
		middleware.SpanEnricher(),
	))
	for _, g := range apiGroups(h) {
		r.Register(g)
	}
	r.Setup()
	return engine, nil
}

func apiGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.System != nil {
		groups = append(groups, NewDomainGroup("system", "").GET("/health", h.System.Health))
	}

	if h.Tenants != nil {
		groups = append(groups, NewDomainGroup("tenants", "/tenants").
			POST("", h.Tenants.Create).
			GET("", h.Tenants.List))
	}

	if h.Users != nil {
		groups = append(groups, NewDomainGroup("users", "/users").
			POST("", h.Users.Create).
			GET("", h.Users.List).
			POST("/:id/deactivate", h.Users.Deactivate))
	}

	if h.ItemTypes != nil {
		itemTypes := NewDomainGroup("item-types", "/item-types").
			POST("", h.ItemTypes.Create).
			GET("", h.ItemTypes.List).
			GET("/:id", h.ItemTypes.GetByID).
			PUT("/:id", h.ItemTypes.Update).
			PUT("/:id/groupings", h.ItemTypes.SetGroupings).
			POST("/:id/deactivate", h.ItemTypes.Deactivate).
			POST("/:id/activate", h.ItemTypes.Activate)
		if h.Items != nil {
			itemTypes.Group("item-type-items", "/:id/items").
				POST("", h.Items.CreateItems).
				POST("/status", h.Items.BulkUpdateStatus).
				POST("/delete", h.Items.BulkDelete)
		}
		groups = append(groups, itemTypes)
	}

	if h.Items != nil {
		groups = append(groups,
			NewDomainGroup("items", "/items").
				GET("", h.Items.ListItems).
				GET("/:id", h.Items.GetItem).
				GET("/:id/history", h.Items.GetItemHistory).
				PATCH("/:id/status", h.Items.UpdateItemStatus),
			NewDomainGroup("summary", "/summary").
				GET("", h.Items.GetSummary).
				GET("/export", h.Items.ExportSummary),
		)
	}
	return groups
}
