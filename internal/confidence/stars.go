package confidence

import "math"

// NumStarBuckets is the required length of a star distribution.
const NumStarBuckets = 5

// StarCounts holds review counts per rating bucket, index 0 = 5 stars down to
// index 4 = 1 star.
type StarCounts [NumStarBuckets]int

// ParseStarCounts converts a wire-level slice into StarCounts. It reports
// false for any length other than 5 or any negative count.
func ParseStarCounts(raw []int) (StarCounts, bool) {
	var sc StarCounts
	if len(raw) != NumStarBuckets {
		return sc, false
	}
	for i, n := range raw {
		if n < 0 {
			return sc, false
		}
		sc[i] = n
	}
	return sc, true
}

// Stats describes a star distribution on the 1-5 scale. With Total == 0 every
// field is a defined-zero sentinel and the distribution carries no
// information; with Total == 1 StdDev and StdErr are defined as 0 because a
// single observation has no sample variance. Callers must gate on Total
// before treating StdDev or StdErr as meaningful dispersion.
type Stats struct {
	Total  int64
	Mean   float64
	StdDev float64
	StdErr float64
}

// starValue maps a bucket index to its rating: index 0 is 5 stars.
func starValue(i int) float64 {
	return float64(NumStarBuckets - i)
}

// Describe computes the sample mean, sample standard deviation (Bessel's
// correction) and standard error of the mean for a star distribution.
func Describe(counts StarCounts) Stats {
	var total int64
	for _, n := range counts {
		total += int64(n)
	}
	if total == 0 {
		return Stats{}
	}

	var weighted float64
	for i, n := range counts {
		weighted += float64(n) * starValue(i)
	}
	mean := weighted / float64(total)

	st := Stats{Total: total, Mean: mean}
	if total > 1 {
		var sumSq float64
		for i, n := range counts {
			d := starValue(i) - mean
			sumSq += float64(n) * d * d
		}
		st.StdDev = math.Sqrt(sumSq / float64(total-1))
	}
	st.StdErr = st.StdDev / math.Sqrt(float64(total))
	return st
}

// EstimateFromDistribution builds the 95% normal-approximation estimate for a
// star distribution: interval on the 1-5 scale first, then mean and both
// bounds rescaled to percentages independently and clamped after rescaling.
// The returned Stats carry the intermediate statistics; callers must check
// Stats.Total > 0 before treating the Estimate as meaningful.
func EstimateFromDistribution(counts StarCounts) (Estimate, Stats) {
	st := Describe(counts)
	if st.Total == 0 {
		return Estimate{}, st
	}

	lo, hi := Interval(st.Mean, st.StdErr, ZScore95)
	return Estimate{
		Point: clamp(RescaleStar(st.Mean), 0, 100),
		Lower: clamp(RescaleStar(lo), 0, 100),
		Upper: clamp(RescaleStar(hi), 0, 100),
	}, st
}
