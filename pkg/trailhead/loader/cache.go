// Package loader memoizes loader executions per history entry.
//
// Results are keyed by the identity of the history entry they were loaded
// for plus the match position, never by URL. Navigating to the same URL
// again creates a new entry and therefore runs the loaders again.
package loader

import "sync"

// Cache maps (entry id, position) to a Resource.
type Cache struct {
	mu      sync.Mutex
	entries map[string]map[int]*Resource
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]map[int]*Resource)}
}

// Resolve returns the resource for the key, starting fn on first use.
// Later calls for the same key return the identical *Resource and never
// call fn again, whether it is pending, fulfilled or rejected.
func (c *Cache) Resolve(entryID string, position int, fn func() (any, error)) *Resource {
	c.mu.Lock()
	defer c.mu.Unlock()

	byPos, ok := c.entries[entryID]
	if !ok {
		byPos = make(map[int]*Resource)
		c.entries[entryID] = byPos
	}
	if res, ok := byPos[position]; ok {
		return res
	}
	res := start(fn)
	byPos[position] = res
	return res
}

// Peek returns the cached resource without starting anything.
func (c *Cache) Peek(entryID string, position int) (*Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[entryID][position]
	return res, ok
}

// Evict drops every position cached for entryID.
func (c *Cache) Evict(entryID string) {
	c.mu.Lock()
	delete(c.entries, entryID)
	c.mu.Unlock()
}

// Adopt moves everything cached under from to to. Used when loaders ran
// under a provisional key before the platform assigned the entry its id.
// Positions already present under to are kept.
func (c *Cache) Adopt(from, to string) {
	if from == to {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copyLocked(from, to)
	delete(c.entries, from)
}

// Share makes to reference the same resources as from without removing
// them from from.
func (c *Cache) Share(from, to string) {
	if from == to {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copyLocked(from, to)
}

func (c *Cache) copyLocked(from, to string) {
	src, ok := c.entries[from]
	if !ok {
		return
	}
	dst, ok := c.entries[to]
	if !ok {
		dst = make(map[int]*Resource, len(src))
		c.entries[to] = dst
	}
	for pos, res := range src {
		if _, exists := dst[pos]; !exists {
			dst[pos] = res
		}
	}
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]map[int]*Resource)
	c.mu.Unlock()
}

// Len returns the number of cached (entry, position) pairs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, byPos := range c.entries {
		n += len(byPos)
	}
	return n
}
