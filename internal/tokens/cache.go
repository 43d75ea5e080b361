package tokens

import "sync"

// Cache is the in-memory view of the API token table. It is nil until the
// first successful load.
type Cache struct {
	mu sync.RWMutex
	m  map[string]int
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the whole token set.
func (c *Cache) Replace(m map[string]int) {
	next := make(map[string]int, len(m))
	for k, v := range m {
		next[k] = v
	}
	c.mu.Lock()
	c.m = next
	c.mu.Unlock()
}

// Ready reports whether the cache has been loaded at least once.
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m != nil
}

// Validate checks whether the token is known.
func (c *Cache) Validate(token string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m[token]
	return ok
}

// RateLimit returns the configured limit for token, or 0 (unlimited) when unknown.
func (c *Cache) RateLimit(token string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m[token]
}
