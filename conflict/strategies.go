package conflict

import (
	"sort"
	"time"
)

// maxRecencyPenalty caps the confidence reduction for stale data in the
// most_recent strategy; staleAfter is the age at which it fully applies
const (
	maxRecencyPenalty = 0.5
	staleAfter        = time.Hour
)

// minOutlierPoints is the minimum numeric point count for IQR fences to
// be meaningful
const minOutlierPoints = 4

// weightedAverage fuses numeric points weighted by source reliability
// times per-point confidence. Falls back to highest_confidence when no
// numeric points exist, and to median when the total weight is zero.
func (r *Resolver) weightedAverage(points []DataPoint) AggregatedResult {
	numeric, values := splitNumeric(points)
	if len(numeric) == 0 {
		return r.highestConfidence(points)
	}

	totalWeight := 0.0
	weightedSum := 0.0
	sources := make([]string, 0, len(numeric))
	perSource := make(map[string]any, len(numeric))
	for i, p := range numeric {
		w := r.SourceWeight(p.Source) * clamp01(p.Confidence)
		totalWeight += w
		weightedSum += w * values[i]
		sources = append(sources, p.Source)
		perSource[p.Source] = w
	}

	if totalWeight == 0 {
		return r.median(points)
	}

	variance := sampleVariance(values)
	return AggregatedResult{
		Value:      weightedSum / totalWeight,
		Confidence: clamp01(totalWeight / float64(len(numeric))),
		Sources:    sources,
		Variance:   &variance,
		Method:     string(StrategyWeightedAverage),
		Metadata:   map[string]any{"weights": perSource},
	}
}

// majorityVote groups points by exact value; the largest group wins,
// ties broken by summed confidence
func (r *Resolver) majorityVote(points []DataPoint) AggregatedResult {
	type group struct {
		value      interface{}
		sources    []string
		confidence float64
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, p := range points {
		key := valueKey(p.Value)
		g, ok := groups[key]
		if !ok {
			g = &group{value: p.Value}
			groups[key] = g
			order = append(order, key)
		}
		g.sources = append(g.sources, p.Source)
		g.confidence += clamp01(p.Confidence)
	}

	var winner *group
	for _, key := range order {
		g := groups[key]
		if winner == nil ||
			len(g.sources) > len(winner.sources) ||
			(len(g.sources) == len(winner.sources) && g.confidence > winner.confidence) {
			winner = g
		}
	}

	return AggregatedResult{
		Value:      winner.value,
		Confidence: clamp01(float64(len(winner.sources)) / float64(len(points))),
		Sources:    winner.sources,
		Method:     string(StrategyMajorityVote),
		Metadata:   map[string]any{"vote_groups": len(groups)},
	}
}

// highestConfidence picks the single point maximizing per-point
// confidence times source reliability
func (r *Resolver) highestConfidence(points []DataPoint) AggregatedResult {
	best := 0
	bestScore := -1.0
	for i, p := range points {
		score := clamp01(p.Confidence) * r.SourceWeight(p.Source)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	p := points[best]
	return AggregatedResult{
		Value:      p.Value,
		Confidence: clamp01(bestScore),
		Sources:    []string{p.Source},
		Method:     string(StrategyHighestConfidence),
		Metadata:   map[string]any{"selected_source": p.Source},
	}
}

// mostRecent picks the freshest point and applies a linear time-decay
// penalty, up to a 50% confidence reduction for data an hour old
func (r *Resolver) mostRecent(points []DataPoint) AggregatedResult {
	best := 0
	for i, p := range points {
		if p.Timestamp.After(points[best].Timestamp) {
			best = i
		}
	}

	p := points[best]
	age := r.now().Sub(p.Timestamp)
	fraction := age.Seconds() / staleAfter.Seconds()
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	penalty := fraction * maxRecencyPenalty

	return AggregatedResult{
		Value:      p.Value,
		Confidence: clamp01(p.Confidence) * (1 - penalty),
		Sources:    []string{p.Source},
		Method:     string(StrategyMostRecent),
		Metadata: map[string]any{
			"selected_source": p.Source,
			"age_seconds":     age.Seconds(),
		},
	}
}

// median takes the statistical median of numeric values. The median is
// treated as inherently robust, so confidence is fixed at 0.8. The
// source whose raw value lands closest to the median is reported in
// metadata.
func (r *Resolver) median(points []DataPoint) AggregatedResult {
	numeric, values := splitNumeric(points)
	if len(numeric) == 0 {
		return r.highestConfidence(points)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	var med float64
	if n%2 == 0 {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		med = sorted[n/2]
	}

	closest := numeric[0].Source
	closestDist := abs(values[0] - med)
	sources := make([]string, 0, len(numeric))
	for i, p := range numeric {
		sources = append(sources, p.Source)
		if d := abs(values[i] - med); d < closestDist {
			closestDist = d
			closest = p.Source
		}
	}

	variance := sampleVariance(values)
	return AggregatedResult{
		Value:      med,
		Confidence: 0.8,
		Sources:    sources,
		Variance:   &variance,
		Method:     string(StrategyMedian),
		Metadata:   map[string]any{"closest_source": closest},
	}
}

// outlierRemoval drops numeric points outside the 1.5*IQR fences and
// fuses the remainder with weighted_average. With fewer than four
// numeric points there is no meaningful IQR, so it degrades directly to
// weighted_average; if removal empties the set it degrades to median.
func (r *Resolver) outlierRemoval(points []DataPoint) AggregatedResult {
	numeric, values := splitNumeric(points)
	if len(numeric) < minOutlierPoints {
		return r.weightedAverage(points)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[n*3/4]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	kept := make([]DataPoint, 0, len(numeric))
	for i, p := range numeric {
		if values[i] >= lower && values[i] <= upper {
			kept = append(kept, p)
		}
	}
	removed := len(numeric) - len(kept)

	var result AggregatedResult
	if len(kept) == 0 {
		result = r.median(points)
	} else {
		result = r.weightedAverage(kept)
	}
	result.Method = string(StrategyOutlierRemoval)
	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["removed_points"] = removed
	return result
}

// sourcePriority picks the highest-priority source present according to
// the fixed ordering, then resolves that singleton via
// highest_confidence. Unknown-source-only inputs fall through to
// highest_confidence over everything.
func (r *Resolver) sourcePriority(points []DataPoint) AggregatedResult {
	for _, source := range sourcePriorityOrder {
		for _, p := range points {
			if p.Source == source {
				result := r.highestConfidence([]DataPoint{p})
				result.Method = string(StrategySourcePriority)
				return result
			}
		}
	}

	result := r.highestConfidence(points)
	result.Method = string(StrategySourcePriority)
	return result
}

func splitNumeric(points []DataPoint) ([]DataPoint, []float64) {
	numeric := make([]DataPoint, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if v, ok := numericValue(p.Value); ok {
			numeric = append(numeric, p)
			values = append(values, v)
		}
	}
	return numeric, values
}

func valueKey(v interface{}) string {
	if f, ok := numericValue(v); ok {
		return "n:" + formatFloat(f)
	}
	return "s:" + stringify(v)
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
