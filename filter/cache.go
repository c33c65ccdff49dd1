// ABOUTME: Filtered-result cache keyed by normalized filter state
// ABOUTME: Evicts oldest entries (insertion order) once it grows past its limit

package filter

import "playlist-browser/library"

// Default cache limits
const (
	DefaultCacheMaxEntries = 100
	DefaultCacheRetain     = 50
)

// resultCache maps filter-state keys to result slices
// Cached slices are returned as-is, so repeated states share one backing array.
type resultCache struct {
	maxEntries int
	retain     int
	entries    map[string][]*library.Track
	order      []string // insertion order, oldest first
}

func newResultCache(maxEntries, retain int) *resultCache {
	if maxEntries < 1 {
		maxEntries = DefaultCacheMaxEntries
	}

	if retain < 0 || retain >= maxEntries {
		retain = maxEntries / 2
	}

	return &resultCache{
		maxEntries: maxEntries,
		retain:     retain,
		entries:    make(map[string][]*library.Track),
	}
}

func (c *resultCache) get(key string) ([]*library.Track, bool) {
	tracks, ok := c.entries[key]

	return tracks, ok
}

// put stores tracks under key and evicts down to retain once over the limit
// Returns the number of evicted entries
func (c *resultCache) put(key string, tracks []*library.Track) int {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}

	c.entries[key] = tracks

	if len(c.entries) <= c.maxEntries {
		return 0
	}

	evicted := 0
	for len(c.entries) > c.retain {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		evicted++
	}

	return evicted
}

func (c *resultCache) len() int {
	return len(c.entries)
}

func (c *resultCache) clear() {
	c.entries = make(map[string][]*library.Track)
	c.order = nil
}
