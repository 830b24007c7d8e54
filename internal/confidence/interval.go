package confidence

// Interval returns the symmetric confidence interval mean +/- z*stderr on the
// star scale. No clamping happens here; bounds may fall outside [1,5] and are
// clamped only after rescaling to percentages.
func Interval(mean, stderr, z float64) (lower, upper float64) {
	halfWidth := z * stderr
	return mean - halfWidth, mean + halfWidth
}

// RescaleStar maps a value on the 1-5 star scale onto the 0-100 percentage
// scale: 1 star -> 0%, 5 stars -> 100%.
func RescaleStar(v float64) float64 {
	return ((v - 1) / 4) * 100
}
