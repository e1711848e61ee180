package services

import (
	"strings"
	"sync"
	"time"
)

// DefaultRateCacheTTL is how long a fetched rate stays fresh.
const DefaultRateCacheTTL = 6 * time.Hour

type rateEntry struct {
	rate      float64
	fetchedAt time.Time
}

// RateCache is a process-lifetime cache of per-pair rates. Entries past the
// TTL are skipped on read and overwritten by the next successful fetch rather
// than evicted. Constructed once and injected so tests get isolated instances.
type RateCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]rateEntry
}

// NewRateCache creates a RateCache. A non-positive TTL falls back to the default.
func NewRateCache(ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = DefaultRateCacheTTL
	}
	return &RateCache{
		ttl:     ttl,
		entries: make(map[string]rateEntry),
	}
}

// Get returns the cached rate for the pair if present and not stale.
func (c *RateCache) Get(from, to string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[pairKey(from, to)]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return 0, false
	}
	return entry.rate, true
}

// Put stores a freshly fetched rate for the pair.
func (c *RateCache) Put(from, to string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pairKey(from, to)] = rateEntry{rate: rate, fetchedAt: time.Now()}
}

func pairKey(from, to string) string {
	return strings.ToUpper(from) + strings.ToUpper(to)
}
