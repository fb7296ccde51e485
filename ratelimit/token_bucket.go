package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/status-im/token-aggregator/config"
)

const (
	// recentRequestsCapacity bounds the per-limiter request timestamp ring
	recentRequestsCapacity = 1000

	// Adaptive tuning constants. Backoff is asymmetric: violations pull
	// the rate down fast, recovery grows it back slowly so recovery
	// cannot re-trigger the provider's limit as fast as backoff engages.
	violationBackoff   = 0.7
	adaptiveBackoff    = 0.9
	recoveryGrowth     = 1.01
	adjustmentSamples  = 10
	observationWindow  = 20
	minimumBackoff     = 0.05
)

// TokenBucketLimiter gates a single provider's outbound call rate using
// a token bucket with adaptive throttling. Tokens refill continuously
// toward the burst capacity at the current effective rate; violations
// reported from 429 responses shrink that rate, violation-free operation
// slowly restores it toward the configured base rate.
//
// All bookkeeping is serialized under the limiter's mutex; the only
// blocking point releases the mutex for the duration of the wait.
type TokenBucketLimiter struct {
	policy config.RateLimitPolicy

	mu             sync.Mutex
	tokens         float64
	lastRefill     time.Time
	currentRate    float64
	backoffFactor  float64
	violations     int
	totalRequests  uint64
	totalWaitTime  time.Duration
	lastObserved   float64

	// ring of recent request timestamps, oldest evicted first
	ring     []time.Time
	ringHead int
	ringLen  int

	// test hooks
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Snapshot is a point-in-time view of limiter state for observability
type Snapshot struct {
	AvailableTokens    float64       `json:"available_tokens"`
	BurstCapacity      int           `json:"burst_capacity"`
	BaseRate           float64       `json:"base_rate"`
	CurrentRate        float64       `json:"current_rate"`
	BackoffFactor      float64       `json:"backoff_factor"`
	Violations         int           `json:"violations"`
	TotalRequests      uint64        `json:"total_requests"`
	TotalWaitTime      time.Duration `json:"total_wait_time"`
	RequestsLastMinute int           `json:"requests_last_minute"`
}

// NewTokenBucketLimiter creates a limiter for the given policy.
// The bucket starts full to allow an initial burst.
func NewTokenBucketLimiter(policy config.RateLimitPolicy) *TokenBucketLimiter {
	l := &TokenBucketLimiter{
		policy:        policy,
		tokens:        float64(policy.Burst),
		currentRate:   policy.RequestsPerSecond,
		backoffFactor: 1.0,
		ring:          make([]time.Time, recentRequestsCapacity),
		now:           time.Now,
	}
	l.lastRefill = l.now()
	l.sleep = defaultSleep
	return l
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy returns the immutable policy this limiter was built from
func (l *TokenBucketLimiter) Policy() config.RateLimitPolicy {
	return l.policy
}

// Acquire blocks until one request token is available and consumes it.
// Returns the wait actually incurred, zero when a token was free.
// Safe for concurrent use; concurrent callers are serialized so the
// bucket can never be over-drawn.
func (l *TokenBucketLimiter) Acquire(ctx context.Context) (time.Duration, error) {
	var waited time.Duration

	l.mu.Lock()
	for {
		l.refillLocked()

		var wait time.Duration
		if l.tokens < 1 {
			wait = l.timeForTokensLocked(1 - l.tokens)
		}
		if capWait := l.minuteCapWaitLocked(); capWait > wait {
			wait = capWait
		}
		if wait == 0 {
			break
		}

		// the timer must not hold the lock so other callers can refill
		// bookkeeping and violations can land while we sleep
		l.mu.Unlock()
		if err := l.sleep(ctx, wait); err != nil {
			return waited, err
		}
		waited += wait
		l.mu.Lock()
	}

	l.tokens--
	if l.tokens < 0 {
		l.tokens = 0
	}
	l.pushTimestampLocked(l.now())
	l.totalRequests++
	l.totalWaitTime += waited

	if l.policy.Adaptive {
		l.adjustRateLocked()
	}
	l.mu.Unlock()

	return waited, nil
}

// ReportViolation signals an external 429/throttle response. The
// effective rate is cut immediately and aggressively; recovery is left
// to the gradual adaptive adjustment.
func (l *TokenBucketLimiter) ReportViolation() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.backoffFactor *= violationBackoff
	if l.backoffFactor < minimumBackoff {
		l.backoffFactor = minimumBackoff
	}
	l.currentRate = l.policy.RequestsPerSecond * l.backoffFactor
	l.violations++
}

// Violations returns the number of violations since the last adaptive
// adjustment consumed them
func (l *TokenBucketLimiter) Violations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.violations
}

// EstimateWait returns the wait a caller would incur right now without
// consuming a token
func (l *TokenBucketLimiter) EstimateWait() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillLocked()
	if l.tokens >= 1 {
		return 0
	}
	return l.timeForTokensLocked(1 - l.tokens)
}

// Snapshot returns current limiter state for status endpoints
func (l *TokenBucketLimiter) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refillLocked()
	return Snapshot{
		AvailableTokens:    l.tokens,
		BurstCapacity:      l.policy.Burst,
		BaseRate:           l.policy.RequestsPerSecond,
		CurrentRate:        l.currentRate,
		BackoffFactor:      l.backoffFactor,
		Violations:         l.violations,
		TotalRequests:      l.totalRequests,
		TotalWaitTime:      l.totalWaitTime,
		RequestsLastMinute: l.countSinceLocked(l.now().Add(-time.Minute)),
	}
}

// refillLocked adds tokens for the time elapsed since the last refill,
// capped at burst capacity. Caller must hold l.mu.
func (l *TokenBucketLimiter) refillLocked() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.currentRate
		if capacity := float64(l.policy.Burst); l.tokens > capacity {
			l.tokens = capacity
		}
		l.lastRefill = now
	}
}

// timeForTokensLocked converts a token deficit into a wait duration at
// the current effective rate
func (l *TokenBucketLimiter) timeForTokensLocked(deficit float64) time.Duration {
	wait := time.Duration(deficit / l.currentRate * float64(time.Second))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

// minuteCapWaitLocked returns how long to wait for the per-minute cap
// window to open up, zero when uncapped or under the cap
func (l *TokenBucketLimiter) minuteCapWaitLocked() time.Duration {
	if l.policy.RequestsPerMinute <= 0 {
		return 0
	}
	now := l.now()
	cutoff := now.Add(-time.Minute)
	if l.countSinceLocked(cutoff) < l.policy.RequestsPerMinute {
		return 0
	}
	oldest := l.oldestSinceLocked(cutoff)
	return oldest.Add(time.Minute).Sub(now)
}

// adjustRateLocked is the periodic self-tuning step invoked from Acquire
// when adaptive mode is on. Violations since the last adjustment shrink
// the backoff factor; a clean window grows it back toward 1.0.
func (l *TokenBucketLimiter) adjustRateLocked() {
	if l.ringLen < adjustmentSamples {
		return
	}

	window := l.lastTimestampsLocked(observationWindow)
	span := window[len(window)-1].Sub(window[0]).Seconds()
	if span > 0 {
		l.lastObserved = float64(len(window)) / span
	}

	if l.violations > 0 {
		l.backoffFactor *= adaptiveBackoff
		l.violations = 0
	} else {
		l.backoffFactor *= recoveryGrowth
		if l.backoffFactor > 1.0 {
			l.backoffFactor = 1.0
		}
	}
	if l.backoffFactor < minimumBackoff {
		l.backoffFactor = minimumBackoff
	}
	l.currentRate = l.policy.RequestsPerSecond * l.backoffFactor
}

func (l *TokenBucketLimiter) pushTimestampLocked(ts time.Time) {
	idx := (l.ringHead + l.ringLen) % recentRequestsCapacity
	l.ring[idx] = ts
	if l.ringLen < recentRequestsCapacity {
		l.ringLen++
	} else {
		// full: overwrite evicted the oldest entry
		l.ringHead = (l.ringHead + 1) % recentRequestsCapacity
	}
}

// lastTimestampsLocked returns up to n most recent timestamps in
// chronological order
func (l *TokenBucketLimiter) lastTimestampsLocked(n int) []time.Time {
	if n > l.ringLen {
		n = l.ringLen
	}
	out := make([]time.Time, 0, n)
	start := l.ringLen - n
	for i := start; i < l.ringLen; i++ {
		out = append(out, l.ring[(l.ringHead+i)%recentRequestsCapacity])
	}
	return out
}

func (l *TokenBucketLimiter) countSinceLocked(cutoff time.Time) int {
	count := 0
	for i := l.ringLen - 1; i >= 0; i-- {
		ts := l.ring[(l.ringHead+i)%recentRequestsCapacity]
		if ts.Before(cutoff) {
			break
		}
		count++
	}
	return count
}

func (l *TokenBucketLimiter) oldestSinceLocked(cutoff time.Time) time.Time {
	oldest := l.now()
	for i := l.ringLen - 1; i >= 0; i-- {
		ts := l.ring[(l.ringHead+i)%recentRequestsCapacity]
		if ts.Before(cutoff) {
			break
		}
		oldest = ts
	}
	return oldest
}
