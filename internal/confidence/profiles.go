// Package confidence implements the statistical estimation engine: category
// profile resolution, the aggregate-count heuristic estimator, and the
// star-distribution estimator. Everything in this package is a pure function
// over immutable inputs.
package confidence

import "strings"

// CategoryProfile holds the heuristic weighting parameters for a place
// category: the review count at which the point estimate saturates, the
// influence weight applied to the normalized count, and the base uncertainty
// multiplier for the heuristic standard error.
type CategoryProfile struct {
	MaxReviews      int     `json:"max_reviews"`
	Weight          float64 `json:"weight"`
	BaseUncertainty float64 `json:"base_uncertainty"`
}

// ProfileEntry pairs a category key with its profile. The profile table is an
// ordered slice, not a map: resolution is first-match-wins, so entry order is
// part of the contract.
type ProfileEntry struct {
	Key     string
	Profile CategoryProfile
}

// GenericKey is the guaranteed fallback category.
const GenericKey = "Generic"

// genericProfile is used when a profile table carries no Generic entry.
var genericProfile = CategoryProfile{MaxReviews: 800, Weight: 0.85, BaseUncertainty: 1.0}

// DefaultProfiles is the built-in, hand-curated profile table. Order is the
// resolution priority; Generic must stay last.
var DefaultProfiles = []ProfileEntry{
	{Key: "restaurant", Profile: CategoryProfile{MaxReviews: 1500, Weight: 0.95, BaseUncertainty: 0.9}},
	{Key: "cafe", Profile: CategoryProfile{MaxReviews: 900, Weight: 0.9, BaseUncertainty: 0.9}},
	{Key: "bar", Profile: CategoryProfile{MaxReviews: 1000, Weight: 0.9, BaseUncertainty: 0.95}},
	{Key: "hotel", Profile: CategoryProfile{MaxReviews: 2500, Weight: 0.95, BaseUncertainty: 0.8}},
	{Key: "store", Profile: CategoryProfile{MaxReviews: 700, Weight: 0.85, BaseUncertainty: 1.0}},
	{Key: "salon", Profile: CategoryProfile{MaxReviews: 400, Weight: 0.8, BaseUncertainty: 1.0}},
	{Key: "gym", Profile: CategoryProfile{MaxReviews: 500, Weight: 0.85, BaseUncertainty: 0.95}},
	{Key: "museum", Profile: CategoryProfile{MaxReviews: 2000, Weight: 0.9, BaseUncertainty: 0.85}},
	{Key: "park", Profile: CategoryProfile{MaxReviews: 1200, Weight: 0.8, BaseUncertainty: 0.9}},
	{Key: GenericKey, Profile: genericProfile},
}

// Resolve scans entries in order and returns the first whose key appears
// (case-insensitively) in either the category or the place name, together with
// the matched key. When nothing matches it returns the table's Generic entry,
// or the built-in generic profile if the table has none. Resolve never fails.
func Resolve(entries []ProfileEntry, category, placeName string) (string, CategoryProfile) {
	cat := strings.ToLower(category)
	name := strings.ToLower(placeName)

	for _, e := range entries {
		if e.Key == GenericKey {
			continue
		}
		key := strings.ToLower(e.Key)
		if strings.Contains(cat, key) || strings.Contains(name, key) {
			return e.Key, e.Profile
		}
	}

	for _, e := range entries {
		if e.Key == GenericKey {
			return GenericKey, e.Profile
		}
	}
	return GenericKey, genericProfile
}
