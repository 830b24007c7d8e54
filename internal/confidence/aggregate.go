package confidence

import "math"

const (
	// baseErrorMagnitude scales the heuristic standard error of the
	// aggregate-count path before the per-category uncertainty factor.
	baseErrorMagnitude = 20.0

	// ZScore95 is the normal z-score for a 95% interval. The confidence
	// level is fixed in this design.
	ZScore95 = 1.96
)

// Estimate is a point confidence percentage with a clamped interval.
// Invariant: 0 <= Lower <= Point <= Upper <= 100.
type Estimate struct {
	Point float64 `json:"point"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// HeuristicStandardError is the shrinking error term of the aggregate-count
// path. The +1 under the square root keeps the denominator finite at zero
// reviews. Strictly decreasing in reviews.
//
// This is a heuristic, not the formal standard error of the mean used by the
// star-distribution path; the two are deliberately separate functions.
func HeuristicStandardError(reviews int64, p CategoryProfile) float64 {
	effectiveSampleSize := math.Sqrt(float64(reviews) + 1)
	return (baseErrorMagnitude * p.BaseUncertainty) / effectiveSampleSize
}

// EstimateFromCount derives a confidence estimate from an aggregate review
// count and a resolved category profile. The count is normalized against the
// profile's saturation ceiling, so the point estimate is non-decreasing in
// reviews and plateaus at MaxReviews. Total over all reviews >= 0.
func EstimateFromCount(reviews int64, p CategoryProfile) Estimate {
	var point float64
	if p.MaxReviews > 0 {
		normalized := reviews
		if normalized > int64(p.MaxReviews) {
			normalized = int64(p.MaxReviews)
		}
		point = (float64(normalized) / float64(p.MaxReviews)) * p.Weight * 100
	}

	halfWidth := HeuristicStandardError(reviews, p) * ZScore95

	return Estimate{
		Point: point,
		Lower: clamp(point-halfWidth, 0, 100),
		Upper: clamp(point+halfWidth, 0, 100),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
