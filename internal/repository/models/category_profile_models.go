package models

// CategoryProfileRow is one row of the category_profiles table. Priority is
// the resolution order: lower values are matched first.
type CategoryProfileRow struct {
	Priority        int
	Key             string
	MaxReviews      int
	Weight          float64
	BaseUncertainty float64
}
