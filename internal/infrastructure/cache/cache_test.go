package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"github.com/itemtrack/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newItemType(t *testing.T) *catalog.ItemType {
	t.Helper()
	box, err := catalog.NewGrouping("box", 16, "2kg")
	require.NoError(t, err)
	it, err := catalog.NewItemType(uuid.New(), "Widget", "blue", []catalog.Grouping{box})
	require.NoError(t, err)
	return it
}

func TestCodec(t *testing.T) {
	it := newItemType(t)
	data, err := encodeItemType(it)
	require.NoError(t, err)

	decoded, err := decodeItemType(data)
	require.NoError(t, err)
	assert.Equal(t, it.ID, decoded.ID)
	assert.Equal(t, it.TenantID, decoded.TenantID)
	assert.Equal(t, it.Groupings, decoded.Groupings)
	assert.True(t, decoded.Active)
}

func TestMemoryItemTypeCache(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a copy of what was stored", func(t *testing.T) {
		c := NewMemoryItemTypeCache(time.Minute, nil)
		defer c.Close()
		it := newItemType(t)
		c.Set(ctx, it)

		got, ok := c.Get(ctx, it.ID)
		require.True(t, ok)
		assert.Equal(t, "Widget", got.Name)

		got.Name = "changed"
		again, ok := c.Get(ctx, it.ID)
		require.True(t, ok)
		assert.Equal(t, "Widget", again.Name)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		c := NewMemoryItemTypeCache(time.Minute, nil)
		defer c.Close()
		now := time.Now()
		c.now = func() time.Time { return now }
		it := newItemType(t)
		c.Set(ctx, it)

		c.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, ok := c.Get(ctx, it.ID)
		assert.False(t, ok)

		hits, misses := c.Stats()
		assert.Zero(t, hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		c := NewMemoryItemTypeCache(time.Minute, nil)
		defer c.Close()
		it := newItemType(t)
		c.Set(ctx, it)
		c.Invalidate(ctx, it.ID)
		_, ok := c.Get(ctx, it.ID)
		assert.False(t, ok)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		c := NewMemoryItemTypeCache(time.Minute, nil)
		defer c.Close()
		now := time.Now()
		c.now = func() time.Time { return now }
		it := newItemType(t)
		c.Set(ctx, it)

		c.now = func() time.Time { return now.Add(time.Hour) }
		c.removeExpired()
		_, found := c.entries.Load(it.ID)
		assert.False(t, found)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewMemoryItemTypeCache(time.Minute, nil)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}

func TestRedisItemTypeCache_Unreachable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisItemTypeCacheWithClient(client, time.Minute, zap.New(core))
	ctx := context.Background()
	it := newItemType(t)

	t.Run("write failures are logged, not returned", func(t *testing.T) {
		c.Set(ctx, it)
		assert.Equal(t, 1, logs.FilterMessage("item type cache write failed").Len())
	})

	t.Run("read failures are misses", func(t *testing.T) {
		_, ok := c.Get(ctx, it.ID)
		assert.False(t, ok)
		assert.Equal(t, 1, logs.FilterMessage("item type cache read failed").Len())
	})

	t.Run("keys are namespaced by id", func(t *testing.T) {
		assert.Equal(t, "itemtrack:item_type:"+it.ID.String(), c.key(it.ID))
	})
}

func TestFactory(t *testing.T) {
	t.Run("disabled cache is nil", func(t *testing.T) {
		c, err := NewFactory(config.CatalogCacheConfig{Enabled: false}, config.RedisConfig{}).Create()
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("memory backend", func(t *testing.T) {
		c, err := NewFactory(config.CatalogCacheConfig{Enabled: true, Backend: "memory", TTL: time.Minute}, config.RedisConfig{}).Create()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &MemoryItemTypeCache{}, c)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		c, err := NewFactory(
			config.CatalogCacheConfig{Enabled: true, Backend: "redis", TTL: time.Minute},
			config.RedisConfig{Host: "127.0.0.1", Port: 1},
		).Create()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &MemoryItemTypeCache{}, c)
	})

	t.Run("fallback can be disabled", func(t *testing.T) {
		_, err := NewFactory(
			config.CatalogCacheConfig{Enabled: true, Backend: "redis", TTL: time.Minute},
			config.RedisConfig{Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false),
		).Create()
		assert.Error(t, err)
	})
}
