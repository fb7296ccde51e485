package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(source string, value interface{}, confidence float64) DataPoint {
	return DataPoint{
		Source:     source,
		Value:      value,
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Confidence: confidence,
	}
}

func TestResolve_NoData(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve(nil, StrategyWeightedAverage)
	assert.Nil(t, result.Value)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, MethodNoData, result.Method)
	assert.Empty(t, result.Sources)
}

func TestResolve_SingleSource(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{point("coingecko", 50000.0, 0.9)}, StrategyMedian)
	assert.Equal(t, 50000.0, result.Value)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, MethodSingleSource, result.Method)
	assert.Equal(t, []string{"coingecko"}, result.Sources)
	require.NotNil(t, result.Variance)
	assert.Zero(t, *result.Variance)
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver(nil)
	points := []DataPoint{
		point("coingecko", 100.0, 1.0),
		point("coinmarketcap", 105.0, 0.8),
		point("coinpaprika", 98.0, 0.9),
	}

	first := r.Resolve(points, StrategyWeightedAverage)
	second := r.Resolve(points, StrategyWeightedAverage)
	assert.Equal(t, first, second)

	// Inputs must come back untouched
	assert.Equal(t, 100.0, points[0].Value)
	assert.Equal(t, 1.0, points[0].Confidence)
}

func TestWeightedAverage_KnownWeights(t *testing.T) {
	r := NewResolver(map[string]float64{"a": 1.0, "b": 0.5})

	result := r.Resolve([]DataPoint{
		point("a", 100.0, 1.0),
		point("b", 200.0, 1.0),
	}, StrategyWeightedAverage)

	// (100*1.0 + 200*0.5) / 1.5
	assert.InDelta(t, 133.33, result.Value.(float64), 0.01)
	assert.InDelta(t, 0.75, result.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{"a", "b"}, result.Sources)
	require.NotNil(t, result.Variance)
	assert.Greater(t, *result.Variance, 0.0)
}

func TestWeightedAverage_FallbackToHighestConfidenceForCategorical(t *testing.T) {
	r := NewResolver(map[string]float64{"a": 1.0, "b": 1.0})

	result := r.Resolve([]DataPoint{
		point("a", "verified", 0.9),
		point("b", "unverified", 0.4),
	}, StrategyWeightedAverage)

	assert.Equal(t, "verified", result.Value)
	assert.Equal(t, string(StrategyHighestConfidence), result.Method)
}

func TestWeightedAverage_ZeroWeightFallsBackToMedian(t *testing.T) {
	r := NewResolver(map[string]float64{"a": 1.0, "b": 1.0, "c": 1.0})

	result := r.Resolve([]DataPoint{
		point("a", 10.0, 0),
		point("b", 20.0, 0),
		point("c", 30.0, 0),
	}, StrategyWeightedAverage)

	assert.Equal(t, 20.0, result.Value)
	assert.Equal(t, string(StrategyMedian), result.Method)
}

func TestMajorityVote(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{
		point("a", true, 0.9),
		point("b", true, 0.8),
		point("c", false, 1.0),
	}, StrategyMajorityVote)

	assert.Equal(t, true, result.Value)
	assert.InDelta(t, 2.0/3.0, result.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{"a", "b"}, result.Sources)
}

func TestMajorityVote_TieBrokenBySummedConfidence(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{
		point("a", "low", 0.3),
		point("b", "high", 0.9),
		point("c", "low", 0.3),
		point("d", "high", 0.9),
	}, StrategyMajorityVote)

	assert.Equal(t, "high", result.Value)
}

func TestHighestConfidence_UsesReliabilityWeight(t *testing.T) {
	r := NewResolver(map[string]float64{"trusted": 1.0, "shaky": 0.5})

	// shaky has higher raw confidence but lower weighted score
	result := r.Resolve([]DataPoint{
		point("trusted", 1.0, 0.8),
		point("shaky", 2.0, 0.9),
	}, StrategyHighestConfidence)

	assert.Equal(t, 1.0, result.Value)
	assert.Equal(t, []string{"trusted"}, result.Sources)
}

func TestMostRecent_TimeDecay(t *testing.T) {
	r := NewResolver(nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	fresh := DataPoint{Source: "a", Value: 10.0, Confidence: 1.0, Timestamp: now.Add(-30 * time.Minute)}
	stale := DataPoint{Source: "b", Value: 20.0, Confidence: 1.0, Timestamp: now.Add(-2 * time.Hour)}

	result := r.Resolve([]DataPoint{stale, fresh}, StrategyMostRecent)
	assert.Equal(t, 10.0, result.Value)
	// 30 minutes old: penalty = 0.5 * 0.5 = 0.25
	assert.InDelta(t, 0.75, result.Confidence, 1e-9)

	// Data older than an hour caps at the 50% reduction
	result = r.Resolve([]DataPoint{stale, stale}, StrategyMostRecent)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestMedian(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{
		point("a", 10.0, 0.9),
		point("b", 30.0, 0.9),
		point("c", 11.0, 0.9),
	}, StrategyMedian)

	assert.Equal(t, 11.0, result.Value)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Equal(t, "c", result.Metadata["closest_source"])
}

func TestOutlierRemoval_DropsSpike(t *testing.T) {
	r := NewResolver(map[string]float64{"a": 1.0, "b": 1.0, "c": 1.0, "d": 1.0, "e": 1.0})

	result := r.Resolve([]DataPoint{
		point("a", 100.0, 1.0),
		point("b", 101.0, 1.0),
		point("c", 99.0, 1.0),
		point("d", 98.0, 1.0),
		point("e", 500.0, 1.0),
	}, StrategyOutlierRemoval)

	fused := result.Value.(float64)
	assert.GreaterOrEqual(t, fused, 98.0)
	assert.LessOrEqual(t, fused, 101.0)
	assert.Equal(t, 1, result.Metadata["removed_points"])
	assert.Equal(t, string(StrategyOutlierRemoval), result.Method)
	assert.NotContains(t, result.Sources, "e")
}

func TestOutlierRemoval_TooFewPointsDegradesToWeightedAverage(t *testing.T) {
	r := NewResolver(map[string]float64{"a": 1.0, "b": 1.0})

	result := r.Resolve([]DataPoint{
		point("a", 100.0, 1.0),
		point("b", 110.0, 1.0),
	}, StrategyOutlierRemoval)

	assert.InDelta(t, 105.0, result.Value.(float64), 1e-9)
	assert.Equal(t, string(StrategyWeightedAverage), result.Method)
}

func TestSourcePriority_PrefersOracleTier(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{
		point("lunarcrush", 3.0, 1.0),
		point("chainlink", 1.0, 0.5),
		point("coingecko", 2.0, 1.0),
	}, StrategySourcePriority)

	assert.Equal(t, 1.0, result.Value)
	assert.Equal(t, []string{"chainlink"}, result.Sources)
	assert.Equal(t, string(StrategySourcePriority), result.Method)
}

func TestConflictDetection_NumericDeviation(t *testing.T) {
	r := NewResolver(nil)

	// 150 deviates from the mean (116.67) by ~28%
	result := r.Resolve([]DataPoint{
		point("a", 100.0, 1.0),
		point("b", 100.0, 1.0),
		point("c", 150.0, 1.0),
	}, StrategyMedian)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ConflictNumericDeviation, result.Conflicts[0].Type)
	assert.Equal(t, []string{"c"}, result.Conflicts[0].Sources)
	assert.Greater(t, result.Conflicts[0].Deviation, 0.10)
}

func TestConflictDetection_AgreementWithinThreshold(t *testing.T) {
	r := NewResolver(nil)
	points := []DataPoint{
		point("a", 50000.0, 1.0),
		point("b", 50100.0, 1.0),
		point("c", 49800.0, 1.0),
	}

	// Detection is independent of the chosen strategy
	for _, strategy := range []Strategy{StrategyWeightedAverage, StrategyMedian, StrategyMostRecent} {
		result := r.Resolve(points, strategy)
		assert.Empty(t, result.Conflicts, "strategy %s", strategy)
	}
}

func TestConflictDetection_CategoricalMismatch(t *testing.T) {
	r := NewResolver(nil)

	result := r.Resolve([]DataPoint{
		point("a", "safe", 0.9),
		point("b", "honeypot", 0.9),
		point("c", "safe", 0.9),
	}, StrategyMajorityVote)

	require.Len(t, result.Conflicts, 2)
	bySources := map[string][]string{}
	for _, c := range result.Conflicts {
		assert.Equal(t, ConflictCategoricalMismatch, c.Type)
		bySources[stringify(c.Value)] = c.Sources
	}
	assert.ElementsMatch(t, []string{"a", "c"}, bySources["safe"])
	assert.ElementsMatch(t, []string{"b"}, bySources["honeypot"])
}

func TestEndToEnd_ThreeProviderPriceFusion(t *testing.T) {
	r := NewResolver(map[string]float64{"A": 1.0, "B": 0.9, "C": 0.8})

	result := r.Resolve([]DataPoint{
		point("A", 50000.0, 1.0),
		point("B", 50100.0, 1.0),
		point("C", 49800.0, 1.0),
	}, StrategyWeightedAverage)

	// (50000*1.0 + 50100*0.9 + 49800*0.8) / 2.7
	assert.InDelta(t, 49974.0, result.Value.(float64), 1.0)
	assert.Len(t, result.Sources, 3)
	assert.False(t, result.HasConflicts())
}
