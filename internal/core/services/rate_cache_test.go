package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateCache_PutThenGet(t *testing.T) {
	cache := NewRateCache(time.Hour)

	cache.Put("USD", "PLN", 3.75)

	rate, ok := cache.Get("USD", "PLN")
	assert.True(t, ok)
	assert.Equal(t, 3.75, rate)
}

func TestRateCache_MissForUnknownPair(t *testing.T) {
	cache := NewRateCache(time.Hour)

	_, ok := cache.Get("USD", "PLN")
	assert.False(t, ok)
}

func TestRateCache_StaleEntrySkipped(t *testing.T) {
	cache := NewRateCache(time.Hour)
	cache.entries[pairKey("USD", "PLN")] = rateEntry{rate: 3.75, fetchedAt: time.Now().Add(-2 * time.Hour)}

	_, ok := cache.Get("USD", "PLN")
	assert.False(t, ok)
}

func TestRateCache_StaleEntryOverwritten(t *testing.T) {
	cache := NewRateCache(time.Hour)
	cache.entries[pairKey("USD", "PLN")] = rateEntry{rate: 3.75, fetchedAt: time.Now().Add(-2 * time.Hour)}

	cache.Put("USD", "PLN", 3.8)

	rate, ok := cache.Get("USD", "PLN")
	assert.True(t, ok)
	assert.Equal(t, 3.8, rate)
}

func TestRateCache_KeyIsCaseInsensitive(t *testing.T) {
	cache := NewRateCache(time.Hour)

	cache.Put("usd", "pln", 3.75)

	rate, ok := cache.Get("USD", "PLN")
	assert.True(t, ok)
	assert.Equal(t, 3.75, rate)
}

func TestNewRateCache_NonPositiveTTLUsesDefault(t *testing.T) {
	cache := NewRateCache(0)
	assert.Equal(t, DefaultRateCacheTTL, cache.ttl)
}
