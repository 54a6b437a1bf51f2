package api

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/aionscope/aionscope/pkg/character"
)

// DefaultCacheSize is the snapshot cache capacity when none is configured.
const DefaultCacheSize = 20

// SnapshotCache is a thread-safe LRU cache for decoded snapshots. Stored
// snapshots are keyed by ID; request bodies by their content hash.
// Cached snapshots are shared and must not be modified.
type SnapshotCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*character.Snapshot
	order   []string // oldest first
}

// NewSnapshotCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to DefaultCacheSize.
func NewSnapshotCache(maxSize int) *SnapshotCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &SnapshotCache{
		maxSize: maxSize,
		entries: make(map[string]*character.Snapshot),
	}
}

// BodyKey returns the cache key for a raw snapshot document.
func BodyKey(data []byte) string {
	return fmt.Sprintf("body:%016x", xxhash.Sum64(data))
}

// Get retrieves a snapshot from the cache, or nil if not found.
func (c *SnapshotCache) Get(key string) *character.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.moveToEnd(key)
	return snap
}

// Put adds a snapshot to the cache, evicting the least recently used entry
// if full.
func (c *SnapshotCache) Put(key string, snap *character.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = snap
		c.moveToEnd(key)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = snap
	c.order = append(c.order, key)
}

// Len returns the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SnapshotCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
