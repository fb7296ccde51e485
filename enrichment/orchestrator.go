package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/cache"
	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/interfaces"
	"github.com/status-im/token-aggregator/metrics"
	"github.com/status-im/token-aggregator/providers"
	"github.com/status-im/token-aggregator/ratelimit"
	"github.com/status-im/token-aggregator/stream"
)

// PayloadFetcher executes one provider API call
type PayloadFetcher interface {
	Fetch(ctx context.Context, provider, tokenAddress, symbol string) (aggregator.RawPayload, time.Duration, error)
}

// HealthReporter receives the outcome of every uncached fetch
type HealthReporter interface {
	ReportSuccess(provider string, responseTime time.Duration)
	ReportFailure(provider string)
}

// QuoteStream contributes live price payloads for watched symbols
type QuoteStream interface {
	Enabled() bool
	Watch(baseSymbol string)
	Payload(baseSymbol string) (aggregator.RawPayload, bool)
}

// Deps bundles the collaborators of the orchestrator. Stream is
// optional; everything else is required.
type Deps struct {
	Registry    *providers.Registry
	Fetcher     PayloadFetcher
	Coordinator *ratelimit.Coordinator
	Cache       cache.Cache
	Health      interfaces.HealthMonitor
	Reporter    HealthReporter
	Aggregator  *aggregator.Aggregator
	Stream      QuoteStream
}

// Orchestrator drives the full enrichment pipeline: provider
// selection, rate-coordinated concurrent fetching, payload caching and
// conflict-resolved aggregation.
type Orchestrator struct {
	cfg  config.EnrichmentConfig
	deps Deps

	statsMu       sync.Mutex
	total         uint64
	successful    uint64
	totalDuration time.Duration

	now func() time.Time
}

// NewOrchestrator creates the enrichment service
func NewOrchestrator(cfg config.EnrichmentConfig, deps Deps) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// Enrich fetches and fuses multi-provider data for one token. A result
// with Success=false carries the reason in Error; partial provider
// failures still produce a record.
func (o *Orchestrator) Enrich(ctx context.Context, req interfaces.EnrichmentRequest) interfaces.EnrichmentResult {
	start := o.now()

	if req.TokenAddress == "" {
		return o.finish(start, interfaces.EnrichmentResult{
			Success: false,
			Error:   "token_address is required",
		}, nil)
	}

	selected := o.selectProviders(req)
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = o.cfg.FetchTimeout
	}

	payloads := make(map[string]aggregator.RawPayload, len(selected)+1)
	var succeeded, failed []string

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, name := range selected {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			payload, err := o.safeFetch(fetchCtx, name, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Enrichment: %s failed for %s: %v", name, req.TokenAddress, err)
				failed = append(failed, name)
				payloads[name] = aggregator.RawPayload{"error": err.Error()}
				return
			}
			succeeded = append(succeeded, name)
			payloads[name] = payload
		}(name)
	}
	wg.Wait()

	if o.deps.Stream != nil && o.deps.Stream.Enabled() && req.Symbol != "" {
		o.deps.Stream.Watch(req.Symbol)
		if payload, ok := o.deps.Stream.Payload(req.Symbol); ok {
			payloads[stream.SourceName] = payload
			succeeded = append(succeeded, stream.SourceName)
		}
	}

	result := interfaces.EnrichmentResult{
		TokenAddress:     req.TokenAddress,
		Success:          len(succeeded) > 0,
		SourcesSucceeded: succeeded,
		SourcesFailed:    failed,
	}

	var record *aggregator.TokenRecord
	if len(payloads) > 0 {
		record = o.deps.Aggregator.AggregateTokenData(req.TokenAddress, payloads)
	}

	switch {
	case len(selected) == 0 && len(succeeded) == 0:
		result.Error = "no data providers available"
	case len(succeeded) == 0:
		result.Error = "all providers failed"
	default:
		result.Record = record
	}

	return o.finish(start, result, record)
}

// finish stamps the duration, updates rolling stats and metrics
func (o *Orchestrator) finish(start time.Time, result interfaces.EnrichmentResult, record *aggregator.TokenRecord) interfaces.EnrichmentResult {
	result.Duration = o.now().Sub(start)

	o.statsMu.Lock()
	o.total++
	if result.Success {
		o.successful++
	}
	o.totalDuration += result.Duration
	o.statsMu.Unlock()

	confidence := 0.0
	if record != nil {
		confidence = record.OverallConfidence
	}
	metrics.RecordEnrichment(start, confidence, len(result.SourcesSucceeded), len(result.SourcesFailed))

	return result
}

// selectProviders filters configured providers by requested category
// and health, then orders them by rate-limit headroom weighted with
// policy priority
func (o *Orchestrator) selectProviders(req interfaces.EnrichmentRequest) []string {
	var names []string
	for _, p := range o.deps.Registry.ByCategories(req.Categories) {
		if o.deps.Health.IsAvailable(p.Name) {
			names = append(names, p.Name)
		}
	}

	max := req.MaxSources
	if max <= 0 {
		max = o.cfg.MaxSources
	}
	if max > len(names) {
		max = len(names)
	}

	selected := make([]string, 0, max)
	remaining := names
	for len(selected) < max && len(remaining) > 0 {
		pick := o.deps.Coordinator.OptimalProvider(remaining)
		selected = append(selected, pick)

		next := remaining[:0]
		for _, name := range remaining {
			if name != pick {
				next = append(next, name)
			}
		}
		remaining = next
	}
	return selected
}

// safeFetch wraps fetchOne with panic isolation so one misbehaving
// provider path cannot take down a whole enrichment
func (o *Orchestrator) safeFetch(ctx context.Context, provider string, req interfaces.EnrichmentRequest) (payload aggregator.RawPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()
	return o.fetchOne(ctx, provider, req)
}

// fetchOne returns the provider payload for a token, served from cache
// when fresh. Uncached fetches go through the rate coordinator and
// feed the health tracker.
func (o *Orchestrator) fetchOne(ctx context.Context, provider string, req interfaces.EnrichmentRequest) (aggregator.RawPayload, error) {
	key := cache.Key(provider, req.TokenAddress)

	data, _, err := o.deps.Cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		if _, err := o.deps.Coordinator.Acquire(ctx, provider); err != nil {
			return nil, fmt.Errorf("rate limit acquire: %w", err)
		}

		payload, duration, err := o.deps.Fetcher.Fetch(ctx, provider, req.TokenAddress, req.Symbol)
		if err != nil {
			if errors.Is(err, providers.ErrRateLimited) {
				o.deps.Coordinator.ReportViolation(provider)
			}
			if o.deps.Reporter != nil {
				o.deps.Reporter.ReportFailure(provider)
			}
			return nil, err
		}

		if o.deps.Reporter != nil {
			o.deps.Reporter.ReportSuccess(provider, duration)
		}
		return json.Marshal(payload)
	}, o.cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	var payload aggregator.RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("corrupt cached payload for %s: %w", key, err)
	}
	return payload, nil
}

// EnrichBatch enriches every request under bounded concurrency.
// Individual failures, including panics in a worker, become failed
// entries at their request's position.
func (o *Orchestrator) EnrichBatch(ctx context.Context, reqs []interfaces.EnrichmentRequest) []interfaces.EnrichmentResult {
	results := make([]interfaces.EnrichmentResult, len(reqs))

	sem := semaphore.NewWeighted(o.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = interfaces.EnrichmentResult{
				TokenAddress: req.TokenAddress,
				Success:      false,
				Error:        fmt.Sprintf("batch aborted: %v", err),
			}
			continue
		}

		wg.Add(1)
		go func(i int, req interfaces.EnrichmentRequest) {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Enrichment: panic enriching %s: %v", req.TokenAddress, r)
					results[i] = interfaces.EnrichmentResult{
						TokenAddress: req.TokenAddress,
						Success:      false,
						Error:        fmt.Sprintf("internal error: %v", r),
					}
				}
			}()

			results[i] = o.Enrich(ctx, req)
		}(i, req)
	}

	wg.Wait()
	return results
}

// SystemStatus returns aggregate pipeline statistics
func (o *Orchestrator) SystemStatus() interfaces.SystemStatus {
	o.statsMu.Lock()
	total := o.total
	successful := o.successful
	totalDuration := o.totalDuration
	o.statsMu.Unlock()

	status := interfaces.SystemStatus{
		TotalEnrichments: total,
		RateLimits:       o.deps.Coordinator.Snapshots(),
		ProviderHealth:   o.deps.Health.All(),
		CachedPayloads:   o.deps.Cache.ItemCount(),
	}
	if total > 0 {
		status.SuccessRate = float64(successful) / float64(total)
		status.AvgResponseTime = totalDuration / time.Duration(total)
	}
	return status
}
