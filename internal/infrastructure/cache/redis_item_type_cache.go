package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/itemtrack/backend/internal/application/catalog"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "itemtrack:item_type:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisItemTypeCache caches item types in Redis so that every instance sees
// the same invalidations. Redis failures are logged and treated as misses.
type RedisItemTypeCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	keyPrefix  string
	logger     *zap.Logger
}

// NewRedisItemTypeCache connects to Redis and verifies the connection
func NewRedisItemTypeCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisItemTypeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisItemTypeCacheWithClient(client, ttl, logger)
	c.ownsClient = true
	return c, nil
}

// NewRedisItemTypeCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisItemTypeCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisItemTypeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisItemTypeCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		logger:    logger,
	}
}

func (c *RedisItemTypeCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// Get returns a cached item type
func (c *RedisItemTypeCache) Get(ctx context.Context, id uuid.UUID) (*catalog.ItemType, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("item type cache read failed", zap.String("item_type_id", id.String()), zap.Error(err))
		return nil, false
	}

	it, err := decodeItemType(data)
	if err != nil {
		c.logger.Warn("dropping undecodable cached item type", zap.String("item_type_id", id.String()), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return it, true
}

// Set stores an item type with the configured TTL
func (c *RedisItemTypeCache) Set(ctx context.Context, it *catalog.ItemType) {
	data, err := encodeItemType(it)
	if err != nil {
		c.logger.Warn("item type cache encode failed", zap.String("item_type_id", it.ID.String()), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(it.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("item type cache write failed", zap.String("item_type_id", it.ID.String()), zap.Error(err))
	}
}

// Invalidate removes an item type from the cache
func (c *RedisItemTypeCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("item type cache invalidation failed", zap.String("item_type_id", id.String()), zap.Error(err))
	}
}

// Ping reports whether Redis is reachable
func (c *RedisItemTypeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client if this cache created it
func (c *RedisItemTypeCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

var _ appcatalog.ItemTypeCache = (*RedisItemTypeCache)(nil)
