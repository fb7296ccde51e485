package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "token_aggregator_"

var (
	// ProviderRequestsTotal counts outbound requests per provider and status
	// Cardinality: providers × ~4 statuses (success, error, rate_limited, timeout)
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "provider_requests_total",
			Help: "Total number of HTTP requests per data provider",
		},
		[]string{"provider", "status"},
	)

	// ProviderRetryCounter counts retry attempts per provider
	ProviderRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "provider_retry_attempts_total",
			Help: "Total number of retry attempts per provider",
		},
		[]string{"provider"},
	)

	// RateLimitWaitSeconds observes time spent waiting on rate limiters
	RateLimitWaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "rate_limit_wait_seconds",
			Help:    "Time spent waiting for rate limiter tokens per provider",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"provider"},
	)

	// RateLimitViolationsTotal counts 429-shaped responses per provider
	RateLimitViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "rate_limit_violations_total",
			Help: "Total number of rate limit violations per provider",
		},
		[]string{"provider"},
	)

	// EnrichmentDuration observes end-to-end enrichment latency
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "enrichment_duration_seconds",
			Help: "Time taken to enrich a single token across all providers",
		},
	)

	// EnrichmentConfidence observes overall confidence of fused results
	EnrichmentConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "enrichment_confidence",
			Help:    "Overall confidence score of aggregated enrichment results",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// EnrichmentSourcesGauge tracks sources used in the last enrichment
	EnrichmentSourcesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "enrichment_sources",
			Help: "Number of successful and failed sources in the last enrichment",
		},
		[]string{"outcome"},
	)

	// CacheSizeGauge tracks the number of cached provider payloads
	CacheSizeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "payload_cache_size",
			Help: "Number of items in the provider payload cache",
		},
	)

	// ProviderHealthGauge tracks provider health as a numeric status
	// (1 healthy, 0.5 degraded, 0 unhealthy/offline, -1 unknown)
	ProviderHealthGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "provider_health_status",
			Help: "Current health status per provider",
		},
		[]string{"provider"},
	)
)

// RecordRateLimitWait records time spent blocked on rate limiters
func RecordRateLimitWait(provider string, wait time.Duration) {
	RateLimitWaitSeconds.WithLabelValues(provider).Observe(wait.Seconds())
}

// RecordRateLimitViolation records a 429-shaped response for a provider
func RecordRateLimitViolation(provider string) {
	RateLimitViolationsTotal.WithLabelValues(provider).Inc()
}

// RecordEnrichment records one completed enrichment cycle
func RecordEnrichment(start time.Time, confidence float64, succeeded, failed int) {
	EnrichmentDuration.Observe(time.Since(start).Seconds())
	EnrichmentConfidence.Observe(confidence)
	EnrichmentSourcesGauge.WithLabelValues("success").Set(float64(succeeded))
	EnrichmentSourcesGauge.WithLabelValues("failed").Set(float64(failed))
}

// RecordCacheSize records the payload cache item count
func RecordCacheSize(size int) {
	CacheSizeGauge.Set(float64(size))
}
