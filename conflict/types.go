package conflict

import "time"

// Strategy selects how multiple observations of one metric are fused.
// The caller picks the strategy per metric; the resolver never chooses.
type Strategy string

const (
	StrategyWeightedAverage   Strategy = "weighted_average"
	StrategyMajorityVote      Strategy = "majority_vote"
	StrategyHighestConfidence Strategy = "highest_confidence"
	StrategyMostRecent        Strategy = "most_recent"
	StrategyMedian            Strategy = "median"
	StrategyOutlierRemoval    Strategy = "outlier_removal"
	StrategySourcePriority    Strategy = "source_priority"
)

// Resolution methods that do not correspond to a selectable strategy
const (
	MethodNoData       = "no_data"
	MethodSingleSource = "single_source"
)

// DataPoint is one observation of a metric from one source. Points are
// created fresh per fetch and never mutated by the resolver.
type DataPoint struct {
	Source     string         `json:"source"`
	Value      interface{}    `json:"value"`
	Timestamp  time.Time      `json:"timestamp"`
	Confidence float64        `json:"confidence"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ConflictType classifies a detected disagreement between sources
type ConflictType string

const (
	// ConflictNumericDeviation marks a numeric point deviating from the
	// mean by more than the detection threshold
	ConflictNumericDeviation ConflictType = "numeric_deviation"

	// ConflictCategoricalMismatch marks distinct categorical values
	// reported for the same metric
	ConflictCategoricalMismatch ConflictType = "categorical_mismatch"
)

// Conflict is one detected disagreement. For numeric deviations Sources
// holds the single deviating source and Deviation its distance from the
// mean as a fraction of the mean; for categorical mismatches Sources
// holds every source that reported Value.
type Conflict struct {
	Type      ConflictType `json:"type"`
	Value     interface{}  `json:"value"`
	Sources   []string     `json:"sources"`
	Deviation float64      `json:"deviation,omitempty"`
}

// AggregatedResult is the outcome of resolving one metric
type AggregatedResult struct {
	Value      interface{}    `json:"value"`
	Confidence float64        `json:"confidence"`
	Sources    []string       `json:"sources"`
	Variance   *float64       `json:"variance,omitempty"`
	Conflicts  []Conflict     `json:"conflicts,omitempty"`
	Method     string         `json:"method"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// HasConflicts reports whether any disagreement was detected
func (r AggregatedResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// numericValue coerces the common JSON number representations
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
