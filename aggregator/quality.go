package aggregator

// Quality score composition weights and recommendation thresholds
const (
	completenessWeight = 0.3
	consistencyWeight  = 0.3
	diversityWeight    = 0.4

	// full diversity credit at this many distinct sources
	fullDiversitySources = 10

	lowScoreThreshold = 0.5
)

// QualityReport assesses how trustworthy and complete a fused record is
type QualityReport struct {
	Completeness    float64  `json:"completeness"`
	Consistency     float64  `json:"consistency"`
	SourceDiversity float64  `json:"source_diversity"`
	OverallScore    float64  `json:"overall_score"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// assessQuality scores the record on completeness (metrics populated
// out of all known metrics), consistency (conflict density) and source
// diversity, and emits textual recommendations for low sub-scores
func assessQuality(populated, totalConflicts, uniqueSources int) QualityReport {
	report := QualityReport{}

	report.Completeness = float64(populated) / float64(ExpectedMetricCount)
	if report.Completeness > 1 {
		report.Completeness = 1
	}

	report.Consistency = 1.0
	if populated > 0 {
		report.Consistency = 1 - 0.5*(float64(totalConflicts)/float64(populated))
		if report.Consistency < 0 {
			report.Consistency = 0
		}
	}

	report.SourceDiversity = float64(uniqueSources) / fullDiversitySources
	if report.SourceDiversity > 1 {
		report.SourceDiversity = 1
	}

	report.OverallScore = completenessWeight*report.Completeness +
		consistencyWeight*report.Consistency +
		diversityWeight*report.SourceDiversity

	if report.Completeness < lowScoreThreshold {
		report.Recommendations = append(report.Recommendations,
			"low metric coverage: add providers reporting the missing metric categories")
	}
	if report.Consistency < lowScoreThreshold {
		report.Recommendations = append(report.Recommendations,
			"sources disagree frequently: review outlier sources or tighten reliability weights")
	}
	if report.SourceDiversity < lowScoreThreshold {
		report.Recommendations = append(report.Recommendations,
			"increase data source coverage for better cross-validation")
	}
	return report
}
