package core

import (
	"context"
	"os"

	"golang.org/x/time/rate"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/api"
	"github.com/status-im/token-aggregator/cache"
	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/conflict"
	"github.com/status-im/token-aggregator/credentials"
	"github.com/status-im/token-aggregator/enrichment"
	"github.com/status-im/token-aggregator/health"
	"github.com/status-im/token-aggregator/providers"
	"github.com/status-im/token-aggregator/ratelimit"
	"github.com/status-im/token-aggregator/stream"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	// Cache service in front of provider fetches
	cacheService := cache.NewService(cfg.Cache)
	registry.Register(cacheService)

	// Passive provider health tracking with a periodic sweep
	tracker := health.NewTracker(cfg.Health)
	registry.Register(tracker)

	// Optional live quote stream
	streamService := stream.NewService(cfg.Stream)
	registry.Register(streamService)

	// Rate coordination across all providers
	coordinator := ratelimit.NewCoordinator(cfg.RateLimits)

	// Provider catalog, credentials and the shared fetch client. The
	// transport pacer smooths bursts below the global policy ceiling.
	providerRegistry := providers.NewRegistry(cfg.Providers)
	credStore := credentials.NewStore(cfg.Credentials)
	pacer := rate.NewLimiter(rate.Limit(cfg.RateLimits.Global.RequestsPerSecond), cfg.RateLimits.Global.Burst)
	client := providers.NewClient(providers.DefaultRetryOptions(), nil, pacer)
	fetcher := providers.NewFetcher(providerRegistry, client, credStore)

	// Conflict resolution biased by configured provider reliability
	weights := make(map[string]float64, len(cfg.Providers))
	for _, p := range cfg.Providers {
		weights[p.Name] = p.Reliability
	}
	resolver := conflict.NewResolver(weights)

	orchestrator := enrichment.NewOrchestrator(cfg.Enrichment, enrichment.Deps{
		Registry:    providerRegistry,
		Fetcher:     fetcher,
		Coordinator: coordinator,
		Cache:       cacheService,
		Health:      tracker,
		Reporter:    tracker,
		Aggregator:  aggregator.New(resolver),
		Stream:      streamService,
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := api.New(port, orchestrator, tracker)
	registry.Register(server)

	return registry, nil
}
