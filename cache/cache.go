package cache

import (
	"context"
	"time"
)

// FetchFunc loads a payload on cache miss
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache is the TTL payload cache in front of provider fetches. Keys are
// opaque; the enrichment layer keys by (provider, token address).
//
//go:generate mockgen -destination=mocks/cache.go . Cache
type Cache interface {
	// GetOrFetch returns the cached payload for key, or invokes fetch
	// and caches its result for ttl. The bool reports a cache hit.
	GetOrFetch(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, bool, error)

	// Get returns the cached payload for key if present
	Get(key string) ([]byte, bool)

	// Set stores a payload with the given ttl; zero ttl uses the
	// cache's default expiration
	Set(key string, data []byte, ttl time.Duration)

	// Delete removes one key
	Delete(key string)

	// ItemCount returns the number of cached payloads
	ItemCount() int
}

// Key builds the canonical cache key for a provider/token pair
func Key(provider, tokenAddress string) string {
	return provider + "|" + tokenAddress
}
