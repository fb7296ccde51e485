package config

import "fmt"

// DefaultPolicyName is the map key for the policy applied to providers
// without a hand-tuned entry
const DefaultPolicyName = "default"

// RateLimitPolicy is the static rate limiting policy for one provider.
// Immutable after load; runtime state lives in the ratelimit package.
type RateLimitPolicy struct {
	// RequestsPerSecond base sustained request rate
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst bucket capacity, the number of requests allowed back-to-back
	Burst int `yaml:"burst"`

	// Optional coarser caps, zero means uncapped
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerHour   int `yaml:"requests_per_hour"`
	RequestsPerDay    int `yaml:"requests_per_day"`

	// Adaptive enables violation-driven backoff and gradual recovery
	Adaptive bool `yaml:"adaptive"`

	// Priority weight in [0..1], breaks ties when several providers
	// could serve the same request
	Priority float64 `yaml:"priority"`

	// Strategy tag, informational (e.g. "token_bucket")
	Strategy string `yaml:"strategy"`
}

// RateLimitsConfig holds the global policy, the fallback default policy
// and per-provider overrides
type RateLimitsConfig struct {
	Global    RateLimitPolicy            `yaml:"global"`
	Default   RateLimitPolicy            `yaml:"default"`
	Providers map[string]RateLimitPolicy `yaml:"providers"`
}

func (r *RateLimitsConfig) applyDefaults() {
	if r.Global.RequestsPerSecond <= 0 {
		r.Global.RequestsPerSecond = 50
	}
	if r.Global.Burst <= 0 {
		r.Global.Burst = 100
	}
	r.Global.Adaptive = true
	if r.Global.Priority <= 0 {
		r.Global.Priority = 1.0
	}

	if r.Default.RequestsPerSecond <= 0 {
		r.Default.RequestsPerSecond = 1
	}
	if r.Default.Burst <= 0 {
		r.Default.Burst = 5
	}
	if r.Default.Priority <= 0 {
		r.Default.Priority = 0.5
	}

	for name, policy := range r.Providers {
		if policy.Burst <= 0 {
			policy.Burst = r.Default.Burst
		}
		if policy.Priority <= 0 {
			policy.Priority = r.Default.Priority
		}
		r.Providers[name] = policy
	}
}

// Validate checks all policies including per-provider overrides
func (r *RateLimitsConfig) Validate() error {
	if err := r.Global.Validate(); err != nil {
		return fmt.Errorf("global rate limit: %w", err)
	}
	if err := r.Default.Validate(); err != nil {
		return fmt.Errorf("default rate limit: %w", err)
	}
	for name, policy := range r.Providers {
		if err := policy.Validate(); err != nil {
			return fmt.Errorf("rate limit for %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks a single policy
func (p RateLimitPolicy) Validate() error {
	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %f", p.RequestsPerSecond)
	}
	if p.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", p.Burst)
	}
	if p.Priority < 0 || p.Priority > 1 {
		return fmt.Errorf("priority must be in [0..1], got %f", p.Priority)
	}
	return nil
}

// PolicyFor returns the policy for the named provider, falling back to
// the default policy for unknown providers
func (r *RateLimitsConfig) PolicyFor(provider string) RateLimitPolicy {
	if policy, ok := r.Providers[provider]; ok {
		return policy
	}
	return r.Default
}
