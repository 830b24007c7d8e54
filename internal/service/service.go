package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/placelens/confidence-server/internal/confidence"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrInsufficientData = errors.New("insufficient review data")
	ErrStorageFailure   = errors.New("storage failure")
)

// ConfidenceService selects the estimation path for a review signal and runs
// the confidence engine over it.
type ConfidenceService struct {
	profiles ProfileRepository
	logger   *zap.Logger
}

// NewConfidenceService creates a new ConfidenceService instance.
func NewConfidenceService(profiles ProfileRepository, logger *zap.Logger) *ConfidenceService {
	if profiles == nil {
		panic("profile repository must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ConfidenceService{
		profiles: profiles,
		logger:   logger,
	}
}

// Estimate produces a confidence report for the signal, preferring the
// star-distribution path when a usable distribution is present and falling
// back to the category heuristic over the aggregate review count. A signal
// carrying neither yields ErrInsufficientData, never a zero-valued estimate.
func (s *ConfidenceService) Estimate(ctx context.Context, sig ReviewSignal) (ConfidenceReport, error) {
	if sc, ok := confidence.ParseStarCounts(sig.StarCounts); ok {
		est, st := confidence.EstimateFromDistribution(sc)
		if st.Total > 0 {
			key, profile := s.resolveForDisplay(ctx, sig)

			s.logger.Info("estimated from star distribution",
				zap.Int64("total_reviews", st.Total),
				zap.Float64("mean", st.Mean),
				zap.Float64("point", est.Point))

			return ConfidenceReport{
				Method:       MethodStarDistribution,
				CategoryKey:  key,
				Profile:      profile,
				TotalReviews: st.Total,
				Degenerate:   st.Total == 1,
				Estimate:     est,
			}, nil
		}
		// A distribution summing to zero carries no information; the
		// aggregate count may still be usable.
	}

	if sig.ReviewsCount == nil || *sig.ReviewsCount < 0 || sig.PlaceName == "" {
		return ConfidenceReport{}, ErrInsufficientData
	}

	entries, err := s.profileTable(ctx)
	if err != nil {
		return ConfidenceReport{}, err
	}

	key, profile := confidence.Resolve(entries, sig.Category, sig.PlaceName)
	est := confidence.EstimateFromCount(*sig.ReviewsCount, profile)

	s.logger.Info("estimated from aggregate count",
		zap.String("category_key", key),
		zap.Int64("reviews", *sig.ReviewsCount),
		zap.Float64("point", est.Point))

	return ConfidenceReport{
		Method:       MethodCategoryHeuristic,
		CategoryKey:  key,
		Profile:      profile,
		TotalReviews: *sig.ReviewsCount,
		Estimate:     est,
	}, nil
}

// Categories returns the resolution table in priority order, for display.
func (s *ConfidenceService) Categories(ctx context.Context) ([]CategoryInfo, error) {
	entries, err := s.profileTable(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryInfo, len(entries))
	for i, e := range entries {
		out[i] = CategoryInfo{Key: e.Key, Profile: e.Profile}
	}
	return out, nil
}

// profileTable loads the ordered profile table, falling back to the built-in
// defaults when the table is empty.
func (s *ConfidenceService) profileTable(ctx context.Context) ([]confidence.ProfileEntry, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.profiles.ListProfiles(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return confidence.DefaultProfiles, nil
	}

	entries := make([]confidence.ProfileEntry, len(rows))
	for i, r := range rows {
		entries[i] = confidence.ProfileEntry{
			Key: r.Key,
			Profile: confidence.CategoryProfile{
				MaxReviews:      r.MaxReviews,
				Weight:          r.Weight,
				BaseUncertainty: r.BaseUncertainty,
			},
		}
	}
	return entries, nil
}

// resolveForDisplay annotates a star-distribution report with the matched
// category. The star estimate itself does not depend on profiles, so a
// storage failure here degrades to the built-in table instead of failing the
// request.
func (s *ConfidenceService) resolveForDisplay(ctx context.Context, sig ReviewSignal) (string, confidence.CategoryProfile) {
	entries, err := s.profileTable(ctx)
	if err != nil {
		s.logger.Warn("profile lookup failed, using built-in table", zap.Error(err))
		entries = confidence.DefaultProfiles
	}
	return confidence.Resolve(entries, sig.Category, sig.PlaceName)
}
