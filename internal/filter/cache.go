package filter

import (
	"sync"
	"sync/atomic"
)

// TileCache memoizes the tile-versus-AOI intersection test, keyed by tile
// label. It is safe for concurrent use by multiple workers. Two workers
// racing on the same label may both compute the value; the test is
// idempotent so the duplicate work is harmless, and a stored result is only
// ever returned for its own key.
//
// Keys are tile labels, not paths: if two branches of the tree reuse a label
// for different rectangles the second one gets the first one's answer. The
// archive convention keeps labels globally unique, so this matches observed
// behavior rather than guarding against it.
//
// A cache lives for one search run and is discarded with it.
type TileCache struct {
	mu     sync.RWMutex
	tiles  map[string]bool
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewTileCache creates an empty cache.
func NewTileCache() *TileCache {
	return &TileCache{tiles: make(map[string]bool)}
}

// GetOrCompute returns the cached result for label, computing and storing it
// via fn on a miss. fn runs outside the lock so a slow geometric test never
// blocks lookups for other labels.
func (c *TileCache) GetOrCompute(label string, fn func() bool) bool {
	c.mu.RLock()
	v, ok := c.tiles[label]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v
	}

	c.misses.Add(1)
	v = fn()

	c.mu.Lock()
	// Keep the first stored value if another worker won the race; both
	// computed the same answer.
	if prev, ok := c.tiles[label]; ok {
		v = prev
	} else {
		c.tiles[label] = v
	}
	c.mu.Unlock()

	return v
}

// Len returns the number of memoized labels.
func (c *TileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles)
}

// Stats returns the lookup hit and miss counts.
func (c *TileCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
