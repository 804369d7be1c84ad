package cache

import (
	"fmt"
	"io"

	appcatalog "github.com/itemtrack/backend/internal/application/catalog"
	"github.com/itemtrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ItemTypeCache is a catalog cache that owns resources
type ItemTypeCache interface {
	appcatalog.ItemTypeCache
	io.Closer
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the caches it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to a
// process-local cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// Factory builds the item type cache selected by configuration
type Factory struct {
	cacheConfig           config.CatalogCacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NewFactory creates a new Factory
func NewFactory(cacheCfg config.CatalogCacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the configured cache, or nil when caching is disabled
func (f *Factory) Create() (ItemTypeCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("item type cache disabled")
		return nil, nil
	}

	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("using in-memory item type cache", zap.Duration("ttl", f.cacheConfig.TTL))
		return NewMemoryItemTypeCache(f.cacheConfig.TTL, f.logger.Named("item_type_cache")), nil
	}

	c, err := NewRedisItemTypeCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.cacheConfig.TTL, f.logger.Named("item_type_cache"))
	if err == nil {
		f.logger.Info("using Redis item type cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for item type cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory item type cache. "+
		"Invalidations will not reach other instances until entries expire.",
		zap.Error(err),
	)
	return NewMemoryItemTypeCache(f.cacheConfig.TTL, f.logger.Named("item_type_cache")), nil
}
