package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/status-im/token-aggregator/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRateLimitsConfig() config.RateLimitsConfig {
	cfg := config.RateLimitsConfig{
		Global:  config.RateLimitPolicy{RequestsPerSecond: 1000, Burst: 1000, Adaptive: true, Priority: 1.0},
		Default: config.RateLimitPolicy{RequestsPerSecond: 1, Burst: 5, Priority: 0.5},
		Providers: map[string]config.RateLimitPolicy{
			"coingecko":   {RequestsPerSecond: 10, Burst: 20, Adaptive: true, Priority: 1.0},
			"coinpaprika": {RequestsPerSecond: 5, Burst: 10, Adaptive: true, Priority: 0.6},
		},
	}
	return cfg
}

// wireFakeClock replaces clocks on the global and all known limiters
func wireFakeClock(c *Coordinator, clock *fakeClock) {
	c.global.now = clock.Now
	c.global.sleep = clock.Sleep
	c.global.lastRefill = clock.Now()
	for _, l := range c.limiters {
		l.now = clock.Now
		l.sleep = clock.Sleep
		l.lastRefill = clock.Now()
	}
}

func TestCoordinator_AcquireSumsGlobalAndProviderWaits(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())
	clock := newFakeClock()
	wireFakeClock(c, clock)
	ctx := context.Background()

	// Drain the provider's burst; the huge global bucket never blocks
	for i := 0; i < 20; i++ {
		wait, err := c.Acquire(ctx, "coingecko")
		require.NoError(t, err)
		assert.Zero(t, wait)
	}

	wait, err := c.Acquire(ctx, "coingecko")
	require.NoError(t, err)
	assert.Greater(t, wait, time.Duration(0))
}

func TestCoordinator_UnknownProviderBootstrapsFromDefault(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())
	ctx := context.Background()

	wait, err := c.Acquire(ctx, "never-configured")
	require.NoError(t, err)
	assert.Zero(t, wait)

	snaps := c.Snapshots()
	snap, ok := snaps["never-configured"]
	require.True(t, ok)
	assert.Equal(t, 5, snap.BurstCapacity)
	assert.Equal(t, 1.0, snap.BaseRate)
}

func TestCoordinator_ViolationEscalatesToGlobal(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())

	globalBase := c.global.Snapshot().BaseRate

	// Below the aggregate threshold the global limiter is untouched
	for i := 0; i < 5; i++ {
		c.ReportViolation("coingecko")
	}
	assert.Equal(t, globalBase, c.global.Snapshot().CurrentRate)

	// Crossing it throttles globally
	c.ReportViolation("coinpaprika")
	assert.Less(t, c.global.Snapshot().CurrentRate, globalBase)
}

func TestCoordinator_OptimalProviderPrefersAvailableTokens(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())
	clock := newFakeClock()
	wireFakeClock(c, clock)
	ctx := context.Background()

	// Exhaust coingecko so coinpaprika wins despite lower priority
	for i := 0; i < 20; i++ {
		_, err := c.Acquire(ctx, "coingecko")
		require.NoError(t, err)
	}

	best := c.OptimalProvider([]string{"coingecko", "coinpaprika"})
	assert.Equal(t, "coinpaprika", best)
}

func TestCoordinator_OptimalProviderPriorityBreaksTies(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())
	clock := newFakeClock()
	wireFakeClock(c, clock)
	ctx := context.Background()

	// Drain both buckets completely so both have non-zero waits
	for i := 0; i < 20; i++ {
		_, err := c.Acquire(ctx, "coingecko")
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		_, err := c.Acquire(ctx, "coinpaprika")
		require.NoError(t, err)
	}

	// coingecko refills twice as fast and has higher priority
	best := c.OptimalProvider([]string{"coingecko", "coinpaprika"})
	assert.Equal(t, "coingecko", best)
}

func TestCoordinator_OptimalProviderFallsBackToFirstCandidate(t *testing.T) {
	c := NewCoordinator(config.RateLimitsConfig{
		Global:  config.RateLimitPolicy{RequestsPerSecond: 10, Burst: 10},
		Default: config.RateLimitPolicy{RequestsPerSecond: 1, Burst: 1},
	})

	assert.Equal(t, "a", c.OptimalProvider([]string{"a", "b"}))
	assert.Equal(t, "", c.OptimalProvider(nil))
}

func TestCoordinator_SnapshotsIncludeGlobal(t *testing.T) {
	c := NewCoordinator(testRateLimitsConfig())

	snaps := c.Snapshots()
	assert.Contains(t, snaps, "global")
	assert.Contains(t, snaps, "coingecko")
	assert.Contains(t, snaps, "coinpaprika")
}
