package interfaces

import "time"

//go:generate mockgen -destination=mocks/health.go . HealthMonitor

// HealthStatus is the rolled-up state of one provider
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusOffline   HealthStatus = "offline"
	StatusUnknown   HealthStatus = "unknown"
)

// ProviderHealth is a point-in-time health view of one provider
type ProviderHealth struct {
	Provider        string        `json:"provider"`
	Status          HealthStatus  `json:"status"`
	UptimePercent   float64       `json:"uptime_percent"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	ErrorRate       float64       `json:"error_rate"`
	LastChecked     time.Time     `json:"last_checked"`
}

// HealthMonitor exposes provider health to the enrichment orchestrator.
// The orchestrator only reads this to exclude unhealthy/offline
// providers from selection; it performs no probing itself.
type HealthMonitor interface {
	// StatusFor returns the current health view for one provider;
	// providers never seen report StatusUnknown
	StatusFor(provider string) ProviderHealth

	// IsAvailable reports whether a provider should be considered for
	// selection (not unhealthy and not offline)
	IsAvailable(provider string) bool

	// All returns health views for every tracked provider
	All() map[string]ProviderHealth
}
