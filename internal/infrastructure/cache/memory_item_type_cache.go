package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/itemtrack/backend/internal/application/catalog"
	"github.com/itemtrack/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryItemTypeCache is a process-local item type cache. Entries are stored
// encoded so that callers never share a mutable aggregate.
type MemoryItemTypeCache struct {
	entries sync.Map // uuid.UUID -> memoryEntry
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// NewMemoryItemTypeCache creates the cache and starts its cleanup goroutine
func NewMemoryItemTypeCache(ttl time.Duration, logger *zap.Logger) *MemoryItemTypeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &MemoryItemTypeCache{
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop(defaultCleanupInterval)
	return c
}

// Get returns a cached item type
func (c *MemoryItemTypeCache) Get(_ context.Context, id uuid.UUID) (*catalog.ItemType, bool) {
	v, ok := c.entries.Load(id)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	entry := v.(memoryEntry)
	if entry.expired(c.now()) {
		c.entries.Delete(id)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	it, err := decodeItemType(entry.data)
	if err != nil {
		c.entries.Delete(id)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return it, true
}

// Set stores an item type with the configured TTL
func (c *MemoryItemTypeCache) Set(_ context.Context, it *catalog.ItemType) {
	data, err := encodeItemType(it)
	if err != nil {
		c.logger.Warn("item type cache encode failed", zap.String("item_type_id", it.ID.String()), zap.Error(err))
		return
	}
	c.entries.Store(it.ID, memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)})
}

// Invalidate removes an item type from the cache
func (c *MemoryItemTypeCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.entries.Delete(id)
}

// Stats returns hit and miss counters
func (c *MemoryItemTypeCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *MemoryItemTypeCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *MemoryItemTypeCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryItemTypeCache) removeExpired() {
	now := c.now()
	c.entries.Range(func(key, value any) bool {
		if value.(memoryEntry).expired(now) {
			c.entries.Delete(key)
		}
		return true
	})
}

var _ appcatalog.ItemTypeCache = (*MemoryItemTypeCache)(nil)
