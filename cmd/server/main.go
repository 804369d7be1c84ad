package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/itemtrack/backend/internal/application/catalog"
	identityapp "github.com/itemtrack/backend/internal/application/identity"
	inventoryapp "github.com/itemtrack/backend/internal/application/inventory"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/infrastructure/auth"
	"github.com/itemtrack/backend/internal/infrastructure/cache"
	"github.com/itemtrack/backend/internal/infrastructure/config"
	"github.com/itemtrack/backend/internal/infrastructure/event"
	"github.com/itemtrack/backend/internal/infrastructure/logger"
	"github.com/itemtrack/backend/internal/infrastructure/migration"
	"github.com/itemtrack/backend/internal/infrastructure/persistence"
	"github.com/itemtrack/backend/internal/infrastructure/scheduler"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"github.com/itemtrack/backend/internal/interfaces/http/handler"
	"github.com/itemtrack/backend/internal/interfaces/http/middleware"
	"github.com/itemtrack/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var (
		configFile string
		migrateUp  bool
	)
	flag.StringVar(&configFile, "config", "", "Path to a config file (default: ./config.toml)")
	flag.BoolVar(&migrateUp, "migrate", false, "Apply pending PostgreSQL migrations before serving")
	flag.Parse()

	if err := run(configFile, migrateUp); err != nil {
		fmt.Fprintf(os.Stderr, "itemtrack: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string, migrateUp bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting item tracking service",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	meters, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("initialize metric export: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	sqlDB := db.SQL()
	if migrateUp && cfg.Database.Driver != "sqlite" {
		m, err := migration.New(sqlDB, "", log.Named("migrate"))
		if err != nil {
			return err
		}
		if err := m.Up(); err != nil {
			return err
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.NewDBTracingConfig(cfg.Telemetry, cfg.Database), log.Named("db_tracing"))
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("register database tracing: %w", err)
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics(telemetry.DefaultNamespace)
		dbMetrics, err := telemetry.NewDBMetrics(metrics, sqlDB, cfg.Database.DBName, cfg.Database.SlowThreshold)
		if err != nil {
			return fmt.Errorf("register database metrics: %w", err)
		}
		if err := db.DB.Use(dbMetrics); err != nil {
			return fmt.Errorf("install database metrics: %w", err)
		}
	}

	itemTypeCache, err := cache.NewFactory(cfg.CatalogCache, cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		return fmt.Errorf("initialize item type cache: %w", err)
	}
	var catalogCache catalogapp.ItemTypeCache
	if itemTypeCache != nil {
		catalogCache = itemTypeCache
		defer func() { _ = itemTypeCache.Close() }()
	}

	returnPolicy, err := inventory.ParseReturnPolicy(cfg.Inventory.ReturnPolicy)
	if err != nil {
		return fmt.Errorf("inventory.return_policy: %w", err)
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemTypeRepo := persistence.NewGormItemTypeRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, log.Named("tenants"))
	userService := identityapp.NewUserService(userRepo, log.Named("users"))
	itemTypeService := catalogapp.NewItemTypeService(itemTypeRepo, catalogCache, log.Named("item_types"))
	itemService := inventoryapp.NewItemService(
		itemRepo,
		persistence.NewGormTransactionScope(db.DB),
		itemTypeService,
		userService,
		inventoryapp.Config{
			SampleLimit:     cfg.Inventory.SampleLimit,
			MaxBulkQuantity: cfg.Inventory.MaxBulkQuantity,
			InsertBatchSize: cfg.Inventory.InsertBatchSize,
			ReturnPolicy:    returnPolicy,
		},
		log.Named("items"),
	)

	// Domain events are delivered in-process after commit
	bus := event.NewBus(log.Named("events"))
	bus.Subscribe(inventoryapp.NewAuditLogHandler(log))
	tenantService.SetEventPublisher(bus)
	userService.SetEventPublisher(bus)
	itemTypeService.SetEventPublisher(bus)
	itemService.SetEventPublisher(bus)

	var recorders telemetry.Recorders
	if metrics != nil {
		recorders = append(recorders, metrics)
	}
	if meters.IsEnabled() {
		counters, err := telemetry.NewOperationCounters(meters.Meter("itemtrack/inventory"))
		if err != nil {
			return err
		}
		recorders = append(recorders, counters)
	}
	if len(recorders) > 0 {
		itemService.SetRecorder(recorders)
	}

	jobs := scheduler.NewScheduler(log)
	if metrics != nil {
		bus.Subscribe(telemetry.NewEventMetricsHandler(metrics))

		gauges := telemetry.NewStockGauges(metrics, tenantRepo, itemRepo, log.Named("stock_gauges"))
		if err := jobs.Register("item_gauges", cfg.Metrics.RefreshCron, time.Minute, gauges.Refresh); err != nil {
			return fmt.Errorf("schedule gauge refresh: %w", err)
		}
		if err := jobs.RunNow(ctx, "item_gauges"); err != nil {
			log.Warn("Initial gauge refresh failed", zap.Error(err))
		}
	}
	jobs.Start(ctx)

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if pinger, ok := itemTypeCache.(interface{ Ping(context.Context) error }); ok {
		checks["cache"] = pinger.Ping
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		JWTService:  auth.NewJWTService(cfg.JWT),
		Tenants:     tenantService,
		Metrics:     metrics,
		MetricsPath: cfg.Metrics.Path,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracer.IsEnabled(),
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Tenants:   handler.NewTenantHandler(tenantService),
		Users:     handler.NewUserHandler(userService),
		ItemTypes: handler.NewItemTypeHandler(itemTypeService),
		Items:     handler.NewItemHandler(itemService),
		System:    handler.NewSystemHandler(version, checks),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meters.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
