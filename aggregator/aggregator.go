package aggregator

import (
	"time"

	"github.com/status-im/token-aggregator/conflict"
)

// RawPayload is one provider's decoded JSON response. A payload with a
// top-level "error" key is excluded wholesale from extraction.
type RawPayload map[string]interface{}

// TokenRecord is the fused, confidence-scored enrichment record for one
// token. Metrics with zero data points are absent from Categories, not
// present with a null value.
type TokenRecord struct {
	TokenAddress string                                           `json:"token_address"`
	Categories   map[string]map[string]conflict.AggregatedResult  `json:"categories"`

	AggregatedAt      time.Time `json:"aggregated_at"`
	SourcesTotal      int       `json:"sources_total"`
	SourcesSuccessful int       `json:"sources_successful"`
	SourcesFailed     int       `json:"sources_failed"`
	OverallConfidence float64   `json:"overall_confidence"`

	Quality QualityReport `json:"quality"`
}

// Metric returns one resolved metric by category and name; ok is false
// when no source reported it
func (r *TokenRecord) Metric(category, name string) (conflict.AggregatedResult, bool) {
	metrics, ok := r.Categories[category]
	if !ok {
		return conflict.AggregatedResult{}, false
	}
	result, ok := metrics[name]
	return result, ok
}

// Aggregator extracts every known metric from heterogeneous raw
// per-provider payloads, resolves each independently through the
// conflict resolver, and assembles a quality-scored record.
// Aggregation operates on immutable snapshots and produces fresh
// output, so it is safe to run fully in parallel across tokens.
type Aggregator struct {
	resolver *conflict.Resolver

	now func() time.Time
}

// New creates an aggregator around the given resolver
func New(resolver *conflict.Resolver) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		now:      time.Now,
	}
}

// AggregateTokenData fuses all provider payloads for one token.
// Payloads carrying a top-level error are counted as failed sources and
// contribute nothing to extraction.
func (a *Aggregator) AggregateTokenData(tokenAddress string, payloads map[string]RawPayload) *TokenRecord {
	now := a.now()

	points := make(map[string][]conflict.DataPoint, len(metricTable))
	succeeded, failed := 0, 0
	uniqueSources := make(map[string]bool)

	for provider, payload := range payloads {
		if payload == nil || payload["error"] != nil {
			failed++
			continue
		}
		succeeded++

		observedAt := payloadTimestamp(payload)
		confidence := pointConfidence(a.resolver.SourceWeight(provider), observedAt, now, len(payload))
		timestamp := observedAt
		if timestamp.IsZero() {
			timestamp = now
		}

		for _, spec := range metricTable {
			value, ok := extractValue(payload, spec)
			if !ok {
				continue
			}
			uniqueSources[provider] = true
			points[spec.Name] = append(points[spec.Name], conflict.DataPoint{
				Source:     provider,
				Value:      value,
				Timestamp:  timestamp,
				Confidence: confidence,
			})
		}
	}

	record := &TokenRecord{
		TokenAddress:      tokenAddress,
		Categories:        make(map[string]map[string]conflict.AggregatedResult),
		AggregatedAt:      now,
		SourcesTotal:      len(payloads),
		SourcesSuccessful: succeeded,
		SourcesFailed:     failed,
	}

	totalConflicts := 0
	populated := 0
	for _, spec := range metricTable {
		metricPoints, ok := points[spec.Name]
		if !ok {
			continue
		}
		result := a.resolver.Resolve(metricPoints, spec.Strategy)
		bucket, ok := record.Categories[spec.Category]
		if !ok {
			bucket = make(map[string]conflict.AggregatedResult)
			record.Categories[spec.Category] = bucket
		}
		bucket[spec.Name] = result
		populated++
		totalConflicts += len(result.Conflicts)
	}

	record.OverallConfidence = overallConfidence(record.Categories)
	record.Quality = assessQuality(populated, totalConflicts, len(uniqueSources))
	return record
}

// overallConfidence combines per-category average confidence into one
// weighted mean using the fixed category importance table
func overallConfidence(categories map[string]map[string]conflict.AggregatedResult) float64 {
	weightedSum := 0.0
	totalWeight := 0.0

	for category, metrics := range categories {
		if len(metrics) == 0 {
			continue
		}
		sum := 0.0
		for _, result := range metrics {
			sum += result.Confidence
		}
		avg := sum / float64(len(metrics))

		weight, ok := categoryImportance[category]
		if !ok {
			weight = categoryImportance[CategoryOther]
		}
		weightedSum += avg * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
