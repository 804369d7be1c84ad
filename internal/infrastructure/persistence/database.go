package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/itemtrack/backend/internal/infrastructure/config"
	zaplog "github.com/itemtrack/backend/internal/infrastructure/logger"
	"github.com/itemtrack/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database is the gorm handle shared by every repository.
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabase connects with the configured driver and sizes the pool.
// SQLite has no migration step, so its schema is created from the models here.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 zaplog.NewGormLogger(log, cfg.LogLevel, cfg.SlowThreshold),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" && isMemoryPath(cfg.Path) {
		// each :memory: connection would get its own empty database
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	d := &Database{DB: db, sql: pool}
	if err := d.Ping(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		if err := db.AutoMigrate(models.All()...); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return d, nil
}

func sqliteDSN(path string) string {
	if isMemoryPath(path) {
		return ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_journal_mode=WAL"
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:"
}

// SQL exposes the pool for migrations and pool metrics.
func (d *Database) SQL() *sql.DB { return d.sql }

func (d *Database) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (d *Database) Close() error { return d.sql.Close() }
