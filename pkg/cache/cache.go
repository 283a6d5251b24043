// Package cache implements texpr's bounded cache layers: one generic
// policy-pluggable boundedCache[K,V], composed four times by Manager for
// the parsed/eval/derivative/sub-expression layers. One shared helper
// backs all four call sites rather than four hand-rolled maps.
package cache

import "sync"

// Policy selects how boundedCache evicts entries once it reaches its
// configured size: pluggable between LRU (default) and LFU.
type Policy int

const (
	LRU Policy = iota
	LFU
)

// entry wraps a cached value with the bookkeeping both policies need.
type entry[V any] struct {
	value V
	// seq is updated to the cache's monotonic counter on every access,
	// giving LRU's "least recently touched" ordering for free.
	seq int64
	// hits counts accesses, giving LFU's "least frequently touched"
	// ordering.
	hits int64
}

// Stats is the optional per-cache statistics block.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// HitRate is Hits / (Hits + Misses), or 0 when nothing has been requested yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// boundedCache is a single generic bounded map with pluggable eviction.
// It is the one primitive Manager composes four times, parameterised
// differently per layer.
type boundedCache[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]*entry[V]
	maxSize    int
	policy     Policy
	clock      int64
	statistics bool
	stats      Stats
}

// newBoundedCache creates a cache holding at most maxSize entries,
// evicting under policy once full.
func newBoundedCache[K comparable, V any](maxSize int, policy Policy) *boundedCache[K, V] {
	return &boundedCache[K, V]{
		entries: make(map[K]*entry[V]),
		maxSize: maxSize,
		policy:  policy,
	}
}

// EnableStatistics turns on hit/miss/eviction tracking for this cache.
func (c *boundedCache[K, V]) EnableStatistics(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statistics = enabled
}

// Get looks up key, recording an access for whichever policy is active.
func (c *boundedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		if c.statistics {
			c.stats.Misses++
		}
		var zero V
		return zero, false
	}
	c.clock++
	e.seq = c.clock
	e.hits++
	if c.statistics {
		c.stats.Hits++
	}
	return e.value, true
}

// Set inserts or replaces key's value, evicting first if the cache is at
// capacity and key is not already present.
func (c *boundedCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	if existing, ok := c.entries[key]; ok {
		existing.value = value
		existing.seq = c.clock
		existing.hits++
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked(len(c.entries) - c.maxSize + 1)
	}
	c.entries[key] = &entry[V]{value: value, seq: c.clock, hits: 1}
}

// SetPolicy changes the eviction policy used for future evictions.
func (c *boundedCache[K, V]) SetPolicy(p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// Resize changes the maximum size, evicting immediately if the new size
// is smaller than the current occupancy. Changing policy or max-size
// online triggers eviction to the new size.
func (c *boundedCache[K, V]) Resize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evictLocked(len(c.entries) - c.maxSize)
	}
}

// Clear empties the cache without touching its configuration.
func (c *boundedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*entry[V])
}

// Stats returns a snapshot of this cache's statistics.
func (c *boundedCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}

// evictLocked removes n entries under the active policy. Caller holds mu.
func (c *boundedCache[K, V]) evictLocked(n int) {
	if n <= 0 {
		return
	}
	type victim struct {
		key   K
		order int64
	}
	victims := make([]victim, 0, len(c.entries))
	for k, e := range c.entries {
		order := e.seq
		if c.policy == LFU {
			order = e.hits
		}
		victims = append(victims, victim{key: k, order: order})
	}
	// partial selection: repeatedly pull the minimum is fine at these
	// bounded sizes (<=512 entries per layer).
	for i := 0; i < n && len(victims) > 0; i++ {
		minIdx := 0
		for j := 1; j < len(victims); j++ {
			if victims[j].order < victims[minIdx].order {
				minIdx = j
			}
		}
		delete(c.entries, victims[minIdx].key)
		if c.statistics {
			c.stats.Evictions++
		}
		victims[minIdx] = victims[len(victims)-1]
		victims = victims[:len(victims)-1]
	}
}
