package reconcile

import (
	"context"
	"sync"
	"time"

	"stock-reconciler/core/inventory"

	"golang.org/x/sync/singleflight"
)

// Snapshot is a loaded inventory table held by the cache.
type Snapshot struct {
	// Table is the loaded inventory with current reorder flags.
	Table inventory.Table

	// Built is the timestamp when this snapshot was loaded.
	Built time.Time

	// TTL is the time-to-live for this snapshot.
	TTL time.Duration
}

// IsExpired returns true if this snapshot has expired based on its TTL.
func (s *Snapshot) IsExpired() bool {
	if s.TTL == 0 {
		return true // No caching
	}
	return time.Since(s.Built) > s.TTL
}

// LoadFunc loads a fresh inventory table.
type LoadFunc func(ctx context.Context) (inventory.Table, error)

// Cache holds inventory snapshots keyed by store location.
type Cache struct {
	ttl       time.Duration
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	// gens counts invalidations per key; loads started before one are not stored.
	gens map[string]uint64
	sf   singleflight.Group
}

// NewCache creates a cache whose snapshots live for ttl. A zero ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:       ttl,
		snapshots: make(map[string]*Snapshot),
		gens:      make(map[string]uint64),
	}
}

// GetOrLoad returns the snapshot for key, loading it if missing or expired.
// Uses singleflight so concurrent callers share a single load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (inventory.Table, error) {
	if snap, ok := c.fresh(key); ok {
		return snap.Table, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if snap, ok := c.fresh(key); ok {
			return snap, nil
		}

		c.mu.RLock()
		gen := c.gens[key]
		c.mu.RUnlock()

		table, err := load(ctx)
		if err != nil {
			return nil, err
		}

		snap := &Snapshot{
			Table: RecomputeFlags(table),
			Built: time.Now(),
			TTL:   c.ttl,
		}

		c.mu.Lock()
		if c.gens[key] == gen {
			c.snapshots[key] = snap
		}
		c.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return inventory.Table{}, err
	}

	return result.(*Snapshot).Table, nil
}

// Invalidate drops the snapshot for key so the next read reloads it.
// A load already in flight for key is not stored and is not shared with later callers.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.snapshots, key)
	c.gens[key]++
	c.mu.Unlock()
	c.sf.Forget(key)
}

func (c *Cache) fresh(key string) (*Snapshot, bool) {
	c.mu.RLock()
	snap, ok := c.snapshots[key]
	c.mu.RUnlock()

	if !ok || snap.IsExpired() {
		return nil, false
	}
	return snap, true
}
