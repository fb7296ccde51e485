package conflict

import (
	"fmt"
	"strconv"
	"time"
)

// numericConflictThreshold flags numeric points deviating from the mean
// by more than this fraction of the mean
const numericConflictThreshold = 0.10

// Resolver fuses N observations of one metric into one trustworthy
// value. Resolution is pure: the same input always yields the same
// result and input points are never mutated, so resolvers can be shared
// across goroutines without locking.
type Resolver struct {
	weights map[string]float64

	// test hook for most_recent time decay
	now func() time.Time
}

// NewResolver creates a resolver. Weights override or extend the static
// source reliability table; nil keeps the defaults.
func NewResolver(weights map[string]float64) *Resolver {
	merged := make(map[string]float64, len(defaultSourceWeights)+len(weights))
	for source, w := range defaultSourceWeights {
		merged[source] = w
	}
	for source, w := range weights {
		merged[source] = w
	}
	return &Resolver{
		weights: merged,
		now:     time.Now,
	}
}

// SourceWeight returns the reliability weight for a source
func (r *Resolver) SourceWeight(source string) float64 {
	if w, ok := r.weights[source]; ok {
		return w
	}
	return defaultReliabilityWeight
}

// Resolve fuses the given points using the selected strategy. Conflict
// detection runs first and independently of the strategy: detected
// conflicts are attached to the result no matter which strategy produced
// the final value.
func (r *Resolver) Resolve(points []DataPoint, strategy Strategy) AggregatedResult {
	switch len(points) {
	case 0:
		return AggregatedResult{
			Value:      nil,
			Confidence: 0,
			Sources:    []string{},
			Method:     MethodNoData,
		}
	case 1:
		return r.singleSource(points[0])
	}

	conflicts := r.detectConflicts(points)
	result := r.applyStrategy(points, strategy)
	result.Conflicts = conflicts
	return result
}

func (r *Resolver) singleSource(p DataPoint) AggregatedResult {
	result := AggregatedResult{
		Value:      p.Value,
		Confidence: clamp01(p.Confidence),
		Sources:    []string{p.Source},
		Method:     MethodSingleSource,
	}
	if _, ok := numericValue(p.Value); ok {
		zero := 0.0
		result.Variance = &zero
	}
	return result
}

func (r *Resolver) applyStrategy(points []DataPoint, strategy Strategy) AggregatedResult {
	switch strategy {
	case StrategyWeightedAverage:
		return r.weightedAverage(points)
	case StrategyMajorityVote:
		return r.majorityVote(points)
	case StrategyHighestConfidence:
		return r.highestConfidence(points)
	case StrategyMostRecent:
		return r.mostRecent(points)
	case StrategyMedian:
		return r.median(points)
	case StrategyOutlierRemoval:
		return r.outlierRemoval(points)
	case StrategySourcePriority:
		return r.sourcePriority(points)
	default:
		return r.weightedAverage(points)
	}
}

// detectConflicts flags disagreements independently of resolution.
// Numeric points: deviation from the arithmetic mean above 10% of the
// mean. Categorical points: any disagreement, grouped by value.
func (r *Resolver) detectConflicts(points []DataPoint) []Conflict {
	var conflicts []Conflict

	var numeric []DataPoint
	var values []float64
	var categorical []DataPoint
	for _, p := range points {
		if v, ok := numericValue(p.Value); ok {
			numeric = append(numeric, p)
			values = append(values, v)
		} else {
			categorical = append(categorical, p)
		}
	}

	if len(numeric) >= 2 {
		mean := meanOf(values)
		if mean != 0 {
			for i, p := range numeric {
				deviation := abs(values[i]-mean) / abs(mean)
				if deviation > numericConflictThreshold {
					conflicts = append(conflicts, Conflict{
						Type:      ConflictNumericDeviation,
						Value:     p.Value,
						Sources:   []string{p.Source},
						Deviation: deviation,
					})
				}
			}
		}
	}

	if len(categorical) >= 2 {
		groups := make(map[string][]string)
		groupValue := make(map[string]interface{})
		order := make([]string, 0)
		for _, p := range categorical {
			key := fmt.Sprintf("%v", p.Value)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
				groupValue[key] = p.Value
			}
			groups[key] = append(groups[key], p.Source)
		}
		if len(groups) > 1 {
			for _, key := range order {
				conflicts = append(conflicts, Conflict{
					Type:    ConflictCategoricalMismatch,
					Value:   groupValue[key],
					Sources: groups[key],
				})
			}
		}
	}

	return conflicts
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
