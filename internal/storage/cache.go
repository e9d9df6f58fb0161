package storage

import (
	"context"
	"time"

	"github.com/allegro/bigcache"
	"github.com/leg100/rawlink/internal/item"
)

var _ Backend = (*Cache)(nil)

// Cache serves item reads from memory, falling back to the wrapped backend.
// Items are immutable so cached entries are never stale.
type Cache struct {
	Backend

	cache *bigcache.BigCache
}

// NewCache wraps the backend with a read cache of at most size MB, zero
// meaning unlimited, and entries living for ttl.
func NewCache(backend Backend, size int, ttl time.Duration) (*Cache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Verbose = false
	if size != 0 {
		cfg.HardMaxCacheSize = size
	}
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, err
	}
	return &Cache{Backend: backend, cache: cache}, nil
}

func (c *Cache) Get(ctx context.Context, id string) (*item.Item, error) {
	if data, err := c.cache.Get(id); err == nil {
		if it, err := decodeItem(id, data); err == nil {
			return it, nil
		}
	}
	it, err := c.Backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := encodeItem(it); err == nil {
		// best effort
		_ = c.cache.Set(id, data)
	}
	return it, nil
}

// Start runs the background work of the wrapped backend, if any, until the
// context is canceled.
func (c *Cache) Start(ctx context.Context) error {
	if s, ok := c.Backend.(interface{ Start(context.Context) error }); ok {
		return s.Start(ctx)
	}
	<-ctx.Done()
	return nil
}

func (c *Cache) Close() error {
	if err := c.cache.Close(); err != nil {
		return err
	}
	return c.Backend.Close()
}
