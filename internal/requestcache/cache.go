// Package requestcache carries a per-request memoization map through
// context. The same read requested twice within one request returns the
// first result instead of issuing the underlying query again.
package requestcache

import (
	"context"
	"sync"
)

type cacheKey struct{}

// Cache memoizes results for the lifetime of a single request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value any
	err   error
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// With stores the cache in the context.
func With(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, c)
}

// FromContext returns the request cache, if one was installed.
func FromContext(ctx context.Context) (*Cache, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(cacheKey{}).(*Cache)
	return c, ok
}

// Do returns the memoized result for key, computing it with fn on first
// use. Errors are memoized too: a failed lookup is not retried within
// the same request.
func (c *Cache) Do(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.value, e.err
	}
	c.mu.Unlock()

	value, err := fn()

	c.mu.Lock()
	c.entries[key] = entry{value: value, err: err}
	c.mu.Unlock()

	return value, err
}

// Do runs fn through the context's request cache when present, or
// directly when no cache was installed.
func Do(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return fn()
	}
	return c.Do(key, fn)
}
