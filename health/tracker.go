package health

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/events"
	"github.com/status-im/token-aggregator/interfaces"
	"github.com/status-im/token-aggregator/metrics"
	"github.com/status-im/token-aggregator/scheduler"
)

const (
	// healthyMaxErrorRate error rate below which a provider is healthy
	healthyMaxErrorRate = 0.1

	// degradedMaxErrorRate error rate below which a provider is degraded
	// rather than unhealthy
	degradedMaxErrorRate = 0.5

	// offlineConsecutiveFailures consecutive failures after which a
	// provider is considered offline regardless of its window stats
	offlineConsecutiveFailures = 10

	// silenceTimeout providers with no outcome for this long are reset
	// to unknown by the periodic sweep
	silenceTimeout = 5 * time.Minute
)

type outcome struct {
	ok           bool
	responseTime time.Duration
	at           time.Time
}

type providerState struct {
	window              []outcome
	head                int
	size                int
	consecutiveFailures int
	status              interfaces.HealthStatus
	lastChecked         time.Time
}

// Tracker derives provider health from observed fetch outcomes. It
// never probes providers itself; the enrichment pipeline reports every
// request result and the tracker rolls them up over a sliding window.
type Tracker struct {
	cfg config.HealthConfig

	mu        sync.RWMutex
	providers map[string]*providerState

	subs  *events.SubscriptionManager
	sched *scheduler.Scheduler

	now func() time.Time
}

// NewTracker creates a tracker with an empty state
func NewTracker(cfg config.HealthConfig) *Tracker {
	t := &Tracker{
		cfg:       cfg,
		providers: make(map[string]*providerState),
		subs:      events.NewSubscriptionManager(),
		now:       time.Now,
	}
	t.sched = scheduler.New(cfg.SweepInterval, t.sweep)
	return t
}

// Start launches the periodic sweep that resets silent providers to
// unknown
func (t *Tracker) Start(ctx context.Context) error {
	t.sched.Start(ctx, false)
	return nil
}

// Stop terminates the sweep
func (t *Tracker) Stop() {
	t.sched.Stop()
}

// Subscribe returns a subscription notified on every status transition
func (t *Tracker) Subscribe() *events.Subscription {
	return t.subs.Subscribe()
}

// ReportSuccess records a successful fetch with its response time
func (t *Tracker) ReportSuccess(provider string, responseTime time.Duration) {
	t.report(provider, outcome{ok: true, responseTime: responseTime, at: t.now()})
}

// ReportFailure records a failed fetch
func (t *Tracker) ReportFailure(provider string) {
	t.report(provider, outcome{ok: false, at: t.now()})
}

func (t *Tracker) report(provider string, o outcome) {
	t.mu.Lock()

	state, ok := t.providers[provider]
	if !ok {
		state = &providerState{
			window: make([]outcome, t.cfg.WindowSize),
			status: interfaces.StatusUnknown,
		}
		t.providers[provider] = state
	}

	state.window[(state.head+state.size)%len(state.window)] = o
	if state.size < len(state.window) {
		state.size++
	} else {
		state.head = (state.head + 1) % len(state.window)
	}

	if o.ok {
		state.consecutiveFailures = 0
	} else {
		state.consecutiveFailures++
	}
	state.lastChecked = o.at

	previous := state.status
	state.status = deriveStatus(state)
	changed := state.status != previous

	if changed {
		metrics.ProviderHealthGauge.WithLabelValues(provider).Set(statusGaugeValue(state.status))
		log.Printf("Health: provider %s transitioned %s -> %s", provider, previous, state.status)
	}

	t.mu.Unlock()

	if changed {
		t.subs.Emit(context.Background())
	}
}

func deriveStatus(state *providerState) interfaces.HealthStatus {
	if state.size == 0 {
		return interfaces.StatusUnknown
	}
	if state.consecutiveFailures >= offlineConsecutiveFailures {
		return interfaces.StatusOffline
	}

	failures := 0
	for i := 0; i < state.size; i++ {
		if !state.window[(state.head+i)%len(state.window)].ok {
			failures++
		}
	}
	errorRate := float64(failures) / float64(state.size)

	switch {
	case errorRate < healthyMaxErrorRate:
		return interfaces.StatusHealthy
	case errorRate < degradedMaxErrorRate:
		return interfaces.StatusDegraded
	default:
		return interfaces.StatusUnhealthy
	}
}

// StatusFor returns the current health view for one provider
func (t *Tracker) StatusFor(provider string) interfaces.ProviderHealth {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.providers[provider]
	if !ok {
		return interfaces.ProviderHealth{
			Provider: provider,
			Status:   interfaces.StatusUnknown,
		}
	}
	return buildHealth(provider, state)
}

// IsAvailable reports whether the provider should be selected for
// fetches. Unknown providers are available: a provider never tried
// must get its first chance.
func (t *Tracker) IsAvailable(provider string) bool {
	status := t.StatusFor(provider).Status
	return status != interfaces.StatusUnhealthy && status != interfaces.StatusOffline
}

// All returns health views for every tracked provider
func (t *Tracker) All() map[string]interfaces.ProviderHealth {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]interfaces.ProviderHealth, len(t.providers))
	for name, state := range t.providers {
		out[name] = buildHealth(name, state)
	}
	return out
}

func buildHealth(provider string, state *providerState) interfaces.ProviderHealth {
	var (
		failures  int
		successes int
		totalRT   time.Duration
	)
	for i := 0; i < state.size; i++ {
		o := state.window[(state.head+i)%len(state.window)]
		if o.ok {
			successes++
			totalRT += o.responseTime
		} else {
			failures++
		}
	}

	h := interfaces.ProviderHealth{
		Provider:    provider,
		Status:      state.status,
		LastChecked: state.lastChecked,
	}
	if state.size > 0 {
		h.UptimePercent = 100 * float64(successes) / float64(state.size)
		h.ErrorRate = float64(failures) / float64(state.size)
	}
	if successes > 0 {
		h.AvgResponseTime = totalRT / time.Duration(successes)
	}
	return h
}

// sweep resets providers that have been silent past the timeout back
// to unknown so stale verdicts do not pin selection decisions forever
func (t *Tracker) sweep(ctx context.Context) {
	cutoff := t.now().Add(-silenceTimeout)
	changed := false

	t.mu.Lock()
	for name, state := range t.providers {
		if state.status == interfaces.StatusUnknown || !state.lastChecked.Before(cutoff) {
			continue
		}
		log.Printf("Health: provider %s silent since %s, resetting to unknown", name, state.lastChecked.Format(time.RFC3339))
		state.status = interfaces.StatusUnknown
		state.size = 0
		state.head = 0
		state.consecutiveFailures = 0
		metrics.ProviderHealthGauge.WithLabelValues(name).Set(statusGaugeValue(interfaces.StatusUnknown))
		changed = true
	}
	t.mu.Unlock()

	if changed {
		t.subs.Emit(ctx)
	}
}

func statusGaugeValue(s interfaces.HealthStatus) float64 {
	switch s {
	case interfaces.StatusHealthy:
		return 1
	case interfaces.StatusDegraded:
		return 0.5
	case interfaces.StatusUnhealthy, interfaces.StatusOffline:
		return 0
	default:
		return -1
	}
}
