// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/bureau-foundation/ttyview/lib/clock"
)

// CacheConfig configures a Cached store.
type CacheConfig struct {
	// TTL is how long a capture is served from memory after it was
	// fetched. Zero disables caching.
	TTL time.Duration

	// MaxBytes bounds the total size of cached captures. When an
	// insert exceeds it, the oldest entries are evicted. A capture
	// larger than MaxBytes is never cached.
	MaxBytes int64

	// Clock defaults to clock.Real().
	Clock clock.Clock
}

// Cached is a Store that keeps recently fetched captures in memory.
// List is never cached.
type Cached struct {
	store    Store
	ttl      time.Duration
	maxBytes int64
	clock    clock.Clock

	mu      sync.Mutex
	entries map[string]*list.Element
	// order holds *cacheEntry, oldest fetch at the back.
	order *list.List
	size  int64
	// epoch counts Invalidate calls. A fetch that started in an
	// earlier epoch may hold stale bytes and is not inserted.
	epoch uint64
}

type cacheEntry struct {
	name    string
	data    []byte
	expires time.Time
}

// NewCached wraps store with a cache.
func NewCached(store Store, config CacheConfig) *Cached {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Cached{
		store:    store,
		ttl:      config.TTL,
		maxBytes: config.MaxBytes,
		clock:    config.Clock,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// List returns the underlying store's listing.
func (c *Cached) List(ctx context.Context) ([]SessionInfo, error) {
	return c.store.List(ctx)
}

// Get returns a cached capture if one is fresh, otherwise fetches it
// from the underlying store. Errors are not cached.
func (c *Cached) Get(ctx context.Context, name string) ([]byte, error) {
	data, epoch, ok := c.lookup(name)
	if ok {
		return data, nil
	}
	data, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	c.insert(name, data, epoch)
	return data, nil
}

// Invalidate drops name from the cache. A name with a compression
// suffix also drops the entry for its bare form, since either may
// have been used to fetch the same file.
func (c *Cached) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.removeLocked(name)
	if bare := TrimCompression(name); bare != name {
		c.removeLocked(bare)
	}
}

// Len returns the number of cached captures and their total size.
func (c *Cached) Len() (count int, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len(), c.size
}

// lookup returns the cached capture for name, if fresh, and the
// current invalidation epoch.
func (c *Cached) lookup(name string) ([]byte, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	element, ok := c.entries[name]
	if !ok {
		return nil, c.epoch, false
	}
	entry := element.Value.(*cacheEntry)
	if !c.clock.Now().Before(entry.expires) {
		c.removeLocked(name)
		return nil, c.epoch, false
	}
	return entry.data, c.epoch, true
}

// insert caches data fetched during epoch. Nothing is cached if an
// invalidation happened since.
func (c *Cached) insert(name string, data []byte, epoch uint64) {
	size := int64(len(data))
	if c.ttl <= 0 || size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.removeLocked(name)
	for c.size+size > c.maxBytes {
		c.removeLocked(c.order.Back().Value.(*cacheEntry).name)
	}
	c.entries[name] = c.order.PushFront(&cacheEntry{
		name:    name,
		data:    data,
		expires: c.clock.Now().Add(c.ttl),
	})
	c.size += size
}

func (c *Cached) removeLocked(name string) {
	element, ok := c.entries[name]
	if !ok {
		return
	}
	entry := c.order.Remove(element).(*cacheEntry)
	delete(c.entries, name)
	c.size -= int64(len(entry.data))
}
