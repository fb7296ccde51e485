package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/metrics"
)

// globalViolationThreshold is the aggregate violation count across all
// providers above which the global limiter is also throttled: many
// providers misbehaving at once means the whole system is too aggressive
const globalViolationThreshold = 5

// Coordinator applies both a provider-specific limiter and one global
// limiter to every outbound call. Providers without a hand-tuned policy
// are bootstrapped transparently from the default policy.
type Coordinator struct {
	cfg config.RateLimitsConfig

	mu       sync.RWMutex
	limiters map[string]*TokenBucketLimiter
	global   *TokenBucketLimiter
}

// NewCoordinator creates a coordinator with pre-built limiters for every
// provider named in the config
func NewCoordinator(cfg config.RateLimitsConfig) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		limiters: make(map[string]*TokenBucketLimiter),
		global:   NewTokenBucketLimiter(cfg.Global),
	}
	for name, policy := range cfg.Providers {
		c.limiters[name] = NewTokenBucketLimiter(policy)
	}
	return c
}

// Acquire gates one outbound call to the named provider. The global
// limiter is acquired first, then the provider limiter; both waits are
// sequential so global throttling is a hard ceiling in front of every
// provider-level call. Returns the total wait incurred.
func (c *Coordinator) Acquire(ctx context.Context, provider string) (time.Duration, error) {
	globalWait, err := c.global.Acquire(ctx)
	if err != nil {
		return globalWait, err
	}

	providerWait, err := c.limiterFor(provider).Acquire(ctx)
	total := globalWait + providerWait
	if total > 0 {
		metrics.RecordRateLimitWait(provider, total)
	}
	return total, err
}

// ReportViolation forwards a 429-shaped failure to the provider's
// limiter. If the violation count summed across all providers crosses
// the global threshold, the global limiter is throttled as well.
func (c *Coordinator) ReportViolation(provider string) {
	c.limiterFor(provider).ReportViolation()
	metrics.RecordRateLimitViolation(provider)

	total := 0
	c.mu.RLock()
	for _, limiter := range c.limiters {
		total += limiter.Violations()
	}
	c.mu.RUnlock()

	if total > globalViolationThreshold {
		log.Printf("Rate coordinator: %d aggregate violations, throttling globally", total)
		c.global.ReportViolation()
	}
}

// OptimalProvider returns the candidate expected to serve a request
// soonest, weighting the estimated wait by each provider's priority.
// Falls back to the first candidate when none have a known limiter.
func (c *Coordinator) OptimalProvider(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	bestScore := -1.0

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, name := range candidates {
		limiter, ok := c.limiters[name]
		if !ok {
			continue
		}
		priority := limiter.Policy().Priority
		if priority <= 0 {
			priority = 0.01
		}
		score := limiter.EstimateWait().Seconds() / priority
		if bestScore < 0 || score < bestScore {
			bestScore = score
			best = name
		}
	}
	return best
}

// EstimateWait returns the immediate wait estimate for one provider
// without consuming tokens
func (c *Coordinator) EstimateWait(provider string) time.Duration {
	return c.limiterFor(provider).EstimateWait()
}

// Snapshots returns per-provider limiter snapshots plus the global
// limiter under the "global" key
func (c *Coordinator) Snapshots() map[string]Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Snapshot, len(c.limiters)+1)
	for name, limiter := range c.limiters {
		out[name] = limiter.Snapshot()
	}
	out["global"] = c.global.Snapshot()
	return out
}

// limiterFor returns the provider's limiter, lazily creating one from
// the default policy for providers with no hand-tuned configuration
func (c *Coordinator) limiterFor(provider string) *TokenBucketLimiter {
	c.mu.RLock()
	if limiter, ok := c.limiters[provider]; ok {
		c.mu.RUnlock()
		return limiter
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, ok := c.limiters[provider]; ok {
		return limiter
	}
	limiter := NewTokenBucketLimiter(c.cfg.PolicyFor(provider))
	c.limiters[provider] = limiter
	return limiter
}
