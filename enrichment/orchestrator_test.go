package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/cache"
	"github.com/status-im/token-aggregator/conflict"
	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/health"
	"github.com/status-im/token-aggregator/interfaces"
	"github.com/status-im/token-aggregator/providers"
	"github.com/status-im/token-aggregator/ratelimit"
)

type fakeFetcher struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]aggregator.RawPayload
	errs      map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:     make(map[string]int),
		responses: make(map[string]aggregator.RawPayload),
		errs:      make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, provider, tokenAddress, symbol string) (aggregator.RawPayload, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[provider]++
	if err, ok := f.errs[provider]; ok {
		return nil, 0, err
	}
	return f.responses[provider], 5 * time.Millisecond, nil
}

func (f *fakeFetcher) callCount(provider string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[provider]
}

type fakeStream struct {
	payloads map[string]aggregator.RawPayload
	watched  []string
}

func (s *fakeStream) Enabled() bool { return true }

func (s *fakeStream) Watch(baseSymbol string) { s.watched = append(s.watched, baseSymbol) }

func (s *fakeStream) Payload(baseSymbol string) (aggregator.RawPayload, bool) {
	p, ok := s.payloads[baseSymbol]
	return p, ok
}

func generousRateLimits() config.RateLimitsConfig {
	cfg := config.RateLimitsConfig{
		Global:  config.RateLimitPolicy{RequestsPerSecond: 10000, Burst: 10000},
		Default: config.RateLimitPolicy{RequestsPerSecond: 1000, Burst: 1000, Priority: 0.5},
	}
	return cfg
}

type testEnv struct {
	orchestrator *Orchestrator
	fetcher      *fakeFetcher
	coordinator  *ratelimit.Coordinator
	tracker      *health.Tracker
	cache        cache.Cache
}

func newTestEnv(t *testing.T, providerCfgs []config.ProviderConfig, opts ...func(*Deps)) *testEnv {
	t.Helper()

	fetcher := newFakeFetcher()
	coordinator := ratelimit.NewCoordinator(generousRateLimits())
	tracker := health.NewTracker(config.HealthConfig{SweepInterval: time.Minute, WindowSize: 20})
	cacheSvc := cache.NewService(config.CacheConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
		Enabled:           true,
	})

	deps := Deps{
		Registry:    providers.NewRegistry(providerCfgs),
		Fetcher:     fetcher,
		Coordinator: coordinator,
		Cache:       cacheSvc,
		Health:      tracker,
		Reporter:    tracker,
		Aggregator:  aggregator.New(conflict.NewResolver(nil)),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	cfg := config.EnrichmentConfig{
		MaxSources:       10,
		BatchConcurrency: 4,
		FetchTimeout:     time.Second,
		CacheTTL:         time.Minute,
	}

	return &testEnv{
		orchestrator: NewOrchestrator(cfg, deps),
		fetcher:      fetcher,
		coordinator:  coordinator,
		tracker:      tracker,
		cache:        cacheSvc,
	}
}

func priceProviders() []config.ProviderConfig {
	return []config.ProviderConfig{
		{Name: "coingecko", Category: config.CategoryPrice, BaseURL: "https://a", Reliability: 0.95},
		{Name: "coinpaprika", Category: config.CategoryPrice, BaseURL: "https://b", Reliability: 0.8},
	}
}

func TestEnrichFusesProviders(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}
	env.fetcher.responses["coinpaprika"] = aggregator.RawPayload{"price_usd": 2510.0}

	result := env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	require.True(t, result.Success)
	require.NotNil(t, result.Record)
	assert.ElementsMatch(t, []string{"coingecko", "coinpaprika"}, result.SourcesSucceeded)
	assert.Empty(t, result.SourcesFailed)

	price, ok := result.Record.Metric(aggregator.CategoryCore, "price")
	require.True(t, ok)
	assert.InDelta(t, 2505.0, toFloat(t, price.Value), 10.0)
	assert.Len(t, price.Sources, 2)
}

func TestEnrichServesSecondCallFromCache(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}
	env.fetcher.responses["coinpaprika"] = aggregator.RawPayload{"price_usd": 2510.0}

	env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))

	assert.Equal(t, 1, env.fetcher.callCount("coingecko"))
	assert.Equal(t, 1, env.fetcher.callCount("coinpaprika"))
}

func TestEnrichPartialFailure(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}
	env.fetcher.errs["coinpaprika"] = errors.New("boom")

	result := env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	require.True(t, result.Success)
	assert.Equal(t, []string{"coingecko"}, result.SourcesSucceeded)
	assert.Equal(t, []string{"coinpaprika"}, result.SourcesFailed)
	require.NotNil(t, result.Record)
	assert.Equal(t, 1, result.Record.SourcesFailed)
}

func TestEnrichAllProvidersFail(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.errs["coingecko"] = errors.New("down")
	env.fetcher.errs["coinpaprika"] = errors.New("down")

	result := env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	assert.False(t, result.Success)
	assert.Equal(t, "all providers failed", result.Error)
	assert.Nil(t, result.Record)
}

func TestEnrichNoProvidersConfigured(t *testing.T) {
	env := newTestEnv(t, nil)

	result := env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	assert.False(t, result.Success)
	assert.Equal(t, "no data providers available", result.Error)
}

func TestEnrichRequiresTokenAddress(t *testing.T) {
	env := newTestEnv(t, priceProviders())

	result := env.orchestrator.Enrich(context.Background(), enrichRequest(""))
	assert.False(t, result.Success)
	assert.Equal(t, "token_address is required", result.Error)
	assert.Zero(t, env.fetcher.callCount("coingecko"))
}

func TestRateLimitedFetchReportsViolation(t *testing.T) {
	env := newTestEnv(t, priceProviders()[:1])
	env.fetcher.errs["coingecko"] = fmt.Errorf("fetch: %w", providers.ErrRateLimited)

	env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))

	snap := env.coordinator.Snapshots()["coingecko"]
	assert.Equal(t, 1, snap.Violations)
	assert.Less(t, snap.CurrentRate, snap.BaseRate)
}

func TestUnhealthyProvidersExcluded(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}

	// drive coinpaprika unhealthy before enriching
	for i := 0; i < 10; i++ {
		env.tracker.ReportFailure("coinpaprika")
	}

	result := env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	require.True(t, result.Success)
	assert.Equal(t, []string{"coingecko"}, result.SourcesSucceeded)
	assert.Zero(t, env.fetcher.callCount("coinpaprika"))
}

func TestMaxSourcesCapsSelection(t *testing.T) {
	cfgs := priceProviders()
	cfgs = append(cfgs, config.ProviderConfig{
		Name: "kraken", Category: config.CategoryPrice, BaseURL: "https://c", Reliability: 0.9,
	})
	env := newTestEnv(t, cfgs)
	for _, p := range cfgs {
		env.fetcher.responses[p.Name] = aggregator.RawPayload{"current_price": 2500.0}
	}

	req := enrichRequest("0xabc")
	req.MaxSources = 2
	result := env.orchestrator.Enrich(context.Background(), req)

	require.True(t, result.Success)
	assert.Len(t, result.SourcesSucceeded, 2)
}

func TestStreamContributesLiveQuote(t *testing.T) {
	stream := &fakeStream{payloads: map[string]aggregator.RawPayload{
		"ETH": {"price_usd": 2600.0},
	}}
	env := newTestEnv(t, nil, func(d *Deps) { d.Stream = stream })

	req := enrichRequest("0xabc")
	req.Symbol = "ETH"
	result := env.orchestrator.Enrich(context.Background(), req)

	require.True(t, result.Success)
	assert.Equal(t, []string{"binance"}, result.SourcesSucceeded)
	assert.Equal(t, []string{"ETH"}, stream.watched)

	price, ok := result.Record.Metric(aggregator.CategoryCore, "price")
	require.True(t, ok)
	assert.Equal(t, 2600.0, toFloat(t, price.Value))
}

func TestEnrichBatchPreservesOrder(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}
	env.fetcher.responses["coinpaprika"] = aggregator.RawPayload{"price_usd": 2510.0}

	reqs := []interfaces.EnrichmentRequest{
		enrichRequest("0xaaa"),
		enrichRequest(""),
		enrichRequest("0xccc"),
	}
	results := env.orchestrator.EnrichBatch(context.Background(), reqs)

	require.Len(t, results, 3)
	assert.Equal(t, "0xaaa", results[0].TokenAddress)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "0xccc", results[2].TokenAddress)
	assert.True(t, results[2].Success)
}

func TestSystemStatus(t *testing.T) {
	env := newTestEnv(t, priceProviders())
	env.fetcher.responses["coingecko"] = aggregator.RawPayload{"current_price": 2500.0}
	env.fetcher.errs["coinpaprika"] = errors.New("down")

	env.orchestrator.Enrich(context.Background(), enrichRequest("0xabc"))
	env.orchestrator.Enrich(context.Background(), enrichRequest(""))

	status := env.orchestrator.SystemStatus()
	assert.Equal(t, uint64(2), status.TotalEnrichments)
	assert.InDelta(t, 0.5, status.SuccessRate, 0.001)
	assert.Contains(t, status.RateLimits, "global")
	assert.Contains(t, status.ProviderHealth, "coingecko")
	assert.Equal(t, 1, status.CachedPayloads)
}

func toFloat(t *testing.T, v interface{}) float64 {
	t.Helper()
	f, ok := v.(float64)
	require.True(t, ok, "expected float64, got %T", v)
	return f
}

func enrichRequest(tokenAddress string) interfaces.EnrichmentRequest {
	return interfaces.EnrichmentRequest{TokenAddress: tokenAddress}
}
