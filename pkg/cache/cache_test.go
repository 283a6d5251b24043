package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundedCacheNeverExceedsConfiguredSize(t *testing.T) {
	c := newBoundedCache[int, int](4, LRU)
	for i := 0; i < 100; i++ {
		c.Set(i, i*i)
		require.LessOrEqual(t, len(c.entries), 4)
	}
}

func TestBoundedCacheLRUEvictsLeastRecentlyTouched(t *testing.T) {
	c := newBoundedCache[string, int](2, LRU)
	c.Set("a", 1)
	c.Set("b", 2)
	// touch "a" so "b" becomes the least recently used entry
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	_, cOK := c.Get("c")
	require.True(t, aOK)
	require.False(t, bOK)
	require.True(t, cOK)
}

func TestBoundedCacheLFUEvictsLeastFrequentlyTouched(t *testing.T) {
	c := newBoundedCache[string, int](2, LFU)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	_, _ = c.Get("a")
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	require.True(t, aOK)
	require.False(t, bOK)
}

func TestBoundedCacheResizeEvictsImmediately(t *testing.T) {
	c := newBoundedCache[int, int](10, LRU)
	for i := 0; i < 10; i++ {
		c.Set(i, i)
	}
	c.Resize(3)
	require.LessOrEqual(t, len(c.entries), 3)
}

func TestBoundedCacheStatistics(t *testing.T) {
	c := newBoundedCache[string, int](1, LRU)
	c.EnableStatistics(true)
	c.Set("a", 1)
	_, _ = c.Get("a") // hit
	_, _ = c.Get("z") // miss
	c.Set("b", 2)      // evicts "a"

	stats := c.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
	require.Equal(t, int64(1), stats.Evictions)
	require.Equal(t, 0.5, stats.HitRate())
}
