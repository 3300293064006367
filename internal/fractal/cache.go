package fractal

import (
	"context"
	"sync"
)

// Cache stores computed grids keyed by Params.Key so that a region can be
// re-rendered with another palette without recomputing it.
//
// Cache is safe for concurrent use. Grids returned from the cache are shared
// between callers and must be treated as read-only.
//
// # Memory Management
//
// Grids stay cached until Evict or Clear is called, or until the cache holds
// more than its limit, at which point the oldest entry is dropped.
type Cache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
	order []string
	limit int
}

// NewCache creates an empty cache holding at most limit grids.
// A limit below 1 means unbounded.
func NewCache(limit int) *Cache {
	return &Cache{
		grids: make(map[string]*Grid),
		limit: limit,
	}
}

// Get returns the cached grid for p, if present.
func (c *Cache) Get(p Params) (*Grid, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.grids[p.Key()]
	return g, ok
}

// Compute returns the cached grid for p or computes and stores it.
//
// The second result reports whether the grid came from the cache. Failed
// computations are not cached.
func (c *Cache) Compute(ctx context.Context, p Params, opts ...Option) (*Grid, bool, error) {
	if g, ok := c.Get(p); ok {
		return g, true, nil
	}

	g, err := Compute(ctx, p, opts...)
	if err != nil {
		return nil, false, err
	}

	key := p.Key()
	c.mu.Lock()
	if _, exists := c.grids[key]; !exists {
		c.order = append(c.order, key)
	}
	c.grids[key] = g
	for c.limit > 0 && len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.grids, oldest)
	}
	c.mu.Unlock()

	return g, false, nil
}

// Evict removes the grid for p. Unknown parameters are ignored.
func (c *Cache) Evict(p Params) {
	key := p.Key()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.grids[key]; !ok {
		return
	}
	delete(c.grids, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes every cached grid.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.order = nil
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}
