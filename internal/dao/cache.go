// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL is the default time-to-live for cached pages.
const DefaultCacheTTL = 5 * time.Second

// cacheEntry holds a cached page with its timestamp.
type cacheEntry struct {
	page      Page
	timestamp time.Time
}

// PageCache provides TTL-based caching of fetched pages.
type PageCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	mx   sync.RWMutex
}

// NewPageCache creates a new PageCache with the specified TTL.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
	}
}

// Get retrieves a cached page for the given key.
func (c *PageCache) Get(key string) (Page, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, exists := c.data[key]
	if !exists || time.Since(entry.timestamp) > c.ttl {
		return Page{}, false
	}

	return Page{Rows: entry.page.Rows.Clone(), Count: entry.page.Count}, true
}

// Set stores a page in the cache with the given key.
func (c *PageCache) Set(key string, p Page) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		page:      Page{Rows: p.Rows.Clone(), Count: p.Count},
		timestamp: time.Now(),
	}
}

// Invalidate removes a specific key from the cache.
func (c *PageCache) Invalidate(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}

// InvalidatePrefix removes all cache entries whose keys start with the given prefix.
func (c *PageCache) InvalidatePrefix(prefix string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Len returns the number of entries, expired ones included.
func (c *PageCache) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return len(c.data)
}

// Clear removes all entries from the cache.
func (c *PageCache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data = make(map[string]cacheEntry)
}

// CachedSource fronts a source with a page cache. Any write clears the
// cache so later reads observe it.
type CachedSource struct {
	Source

	name  string
	cache *PageCache
	log   *zap.Logger
}

// NewCachedSource wraps src. A zero ttl uses DefaultCacheTTL.
func NewCachedSource(name string, src Source, ttl time.Duration, log *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{
		Source: src,
		name:   name,
		cache:  NewPageCache(ttl),
		log:    log,
	}
}

func (c *CachedSource) key(q Query) string {
	return c.name + "/" + q.Key()
}

// List serves from cache when fresh.
func (c *CachedSource) List(ctx context.Context, q Query) (Page, error) {
	k := c.key(q)
	if p, ok := c.cache.Get(k); ok {
		c.log.Debug("page cache hit", zap.String("key", k))
		return p, nil
	}
	p, err := c.Source.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	c.cache.Set(k, p)

	return p, nil
}

// PersistCell writes through and drops cached pages.
func (c *CachedSource) PersistCell(ctx context.Context, rowID, column string, value any) error {
	defer c.cache.InvalidatePrefix(c.name + "/")
	return c.Source.PersistCell(ctx, rowID, column, value)
}

// Delete removes rows when the wrapped source supports it.
func (c *CachedSource) Delete(ctx context.Context, ids []string) error {
	n, ok := c.Source.(Nuker)
	if !ok {
		return ErrReadOnly
	}
	defer c.cache.InvalidatePrefix(c.name + "/")
	return n.Delete(ctx, ids)
}

// Create inserts a row when the wrapped source supports it.
func (c *CachedSource) Create(ctx context.Context, values map[string]any) (string, error) {
	cr, ok := c.Source.(Creator)
	if !ok {
		return "", ErrReadOnly
	}
	defer c.cache.InvalidatePrefix(c.name + "/")
	return cr.Create(ctx, values)
}

// Invalidate drops all cached pages.
func (c *CachedSource) Invalidate() {
	c.cache.InvalidatePrefix(c.name + "/")
}
