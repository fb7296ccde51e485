package interfaces

import (
	"context"
	"time"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/ratelimit"
)

//go:generate mockgen -destination=mocks/enrichment.go . EnrichmentService

// EnrichmentRequest asks for one token to be enriched
type EnrichmentRequest struct {
	// TokenAddress contract address or canonical identifier, required
	TokenAddress string `json:"token_address"`

	// Symbol optional ticker symbol, used by streaming quote sources
	Symbol string `json:"symbol,omitempty"`

	// Categories provider categories to query; empty or ["all"] means
	// every category
	Categories []string `json:"categories,omitempty"`

	// Priority request priority in [0..1], defaults to 1.0
	Priority float64 `json:"priority,omitempty"`

	// MaxSources caps the number of providers queried; zero uses the
	// configured default
	MaxSources int `json:"max_sources,omitempty"`

	// Timeout per-provider fetch timeout; zero uses the configured
	// default
	Timeout time.Duration `json:"timeout,omitempty"`
}

// EnrichmentResult is the outcome of enriching one token. A low
// confidence score is a data-quality signal, not an error state.
type EnrichmentResult struct {
	TokenAddress string                  `json:"token_address"`
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	Record       *aggregator.TokenRecord `json:"record,omitempty"`

	SourcesSucceeded []string      `json:"sources_succeeded"`
	SourcesFailed    []string      `json:"sources_failed"`
	Duration         time.Duration `json:"duration"`
}

// SystemStatus summarizes the aggregation pipeline for observability
// dashboards
type SystemStatus struct {
	TotalEnrichments  uint64                        `json:"total_enrichments"`
	SuccessRate       float64                       `json:"success_rate"`
	AvgResponseTime   time.Duration                 `json:"avg_response_time"`
	RateLimits        map[string]ratelimit.Snapshot `json:"rate_limits"`
	ProviderHealth    map[string]ProviderHealth     `json:"provider_health"`
	CachedPayloads    int                           `json:"cached_payloads"`
}

// EnrichmentService is the core surface exposed to callers (API server,
// batch jobs, tests)
type EnrichmentService interface {
	// Enrich fetches and fuses multi-provider data for one token
	Enrich(ctx context.Context, req EnrichmentRequest) EnrichmentResult

	// EnrichBatch enriches every request under bounded concurrency;
	// individual failures become failed entries, never an aborted batch
	EnrichBatch(ctx context.Context, reqs []EnrichmentRequest) []EnrichmentResult

	// SystemStatus returns aggregate success rate, response times and
	// per-provider rate-limit/health snapshots
	SystemStatus() SystemStatus
}
