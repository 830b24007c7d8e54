package service

import "github.com/placelens/confidence-server/internal/confidence"

// Estimation methods reported to callers.
const (
	MethodStarDistribution  = "star_distribution"
	MethodCategoryHeuristic = "category_heuristic"
)

// ReviewSignal is the read-only input handed over by the extraction
// collaborator. Absent fields are expressed as nil (ReviewsCount) or a
// zero-length slice (StarCounts); the service never mutates a signal.
type ReviewSignal struct {
	PlaceName    string
	Category     string
	ReviewsCount *int64
	StarCounts   []int
}

// ConfidenceReport is the estimation outcome handed to the presentation
// collaborator. Degenerate flags a single-review star distribution whose
// zero dispersion is a policy sentinel, not a measured value.
type ConfidenceReport struct {
	Method       string
	CategoryKey  string
	Profile      confidence.CategoryProfile
	TotalReviews int64
	Degenerate   bool
	Estimate     confidence.Estimate
}

// CategoryInfo is one entry of the resolution table, in priority order.
type CategoryInfo struct {
	Key     string
	Profile confidence.CategoryProfile
}
