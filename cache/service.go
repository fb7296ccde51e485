package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/metrics"
)

// Service implements Cache on top of an in-memory go-cache store
type Service struct {
	store   *gocache.Cache
	enabled bool
}

// NewService creates a cache service with the given configuration.
// When caching is disabled every GetOrFetch call goes to the fetcher.
func NewService(cfg config.CacheConfig) *Service {
	return &Service{
		store:   gocache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
		enabled: cfg.Enabled,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.store != nil {
		s.store.Flush()
	}
}

// GetOrFetch returns the cached payload for key or loads it via fetch
func (s *Service) GetOrFetch(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, bool, error) {
	if data, found := s.Get(key); found {
		return data, true, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	s.Set(key, data, ttl)
	return data, false, nil
}

// Get returns the cached payload for key if present
func (s *Service) Get(key string) ([]byte, bool) {
	if !s.enabled {
		return nil, false
	}
	value, found := s.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := value.([]byte)
	return data, ok
}

// Set stores a payload with the given ttl
func (s *Service) Set(key string, data []byte, ttl time.Duration) {
	if !s.enabled {
		return
	}
	s.store.Set(key, data, ttl)
	metrics.RecordCacheSize(s.store.ItemCount())
}

// Delete removes one key
func (s *Service) Delete(key string) {
	s.store.Delete(key)
}

// ItemCount returns the number of cached payloads
func (s *Service) ItemCount() int {
	return s.store.ItemCount()
}
