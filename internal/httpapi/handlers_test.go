package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/placelens/confidence-server/internal/confidence"
	"github.com/placelens/confidence-server/internal/httpapi/mocks"
	"github.com/placelens/confidence-server/internal/service"
)

func int64Ptr(v int64) *int64 { return &v }

// TestNewHandlers tests the constructor
func TestNewHandlers(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{}
		mockCache := &mocks.MockCacher{}
		ttl := 5 * time.Minute

		handlers := NewHandlers(mockEstimator, mockCache, zap.NewNop(), ttl)

		assert.NotNil(t, handlers)
		assert.Equal(t, mockEstimator, handlers.estimator)
		assert.Equal(t, mockCache, handlers.cache)
		assert.Equal(t, ttl, handlers.cacheTTL)
		assert.NotNil(t, handlers.logger)
	})

	t.Run("nil estimator panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHandlers(nil, &mocks.MockCacher{}, zap.NewNop(), time.Minute)
		})
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		handlers := NewHandlers(&mocks.MockEstimatorService{}, &mocks.MockCacher{}, zap.NewNop(), 0)
		assert.Equal(t, defaultCacheDuration, handlers.cacheTTL)
	})

	t.Run("negative TTL uses default", func(t *testing.T) {
		handlers := NewHandlers(&mocks.MockEstimatorService{}, &mocks.MockCacher{}, zap.NewNop(), -time.Minute)
		assert.Equal(t, defaultCacheDuration, handlers.cacheTTL)
	})
}

func postEstimate(t *testing.T, handlers *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handlers.EstimatePlace(rec, req)
	return rec
}

func TestEstimatePlace(t *testing.T) {
	t.Run("successful estimate", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			EstimateFunc: func(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error) {
				assert.Equal(t, "Blue Door Cafe", sig.PlaceName)
				assert.Equal(t, "cafe", sig.Category)
				require.NotNil(t, sig.ReviewsCount)
				assert.Equal(t, int64(120), *sig.ReviewsCount)

				return service.ConfidenceReport{
					Method:       service.MethodCategoryHeuristic,
					CategoryKey:  "cafe",
					Profile:      confidence.CategoryProfile{MaxReviews: 900, Weight: 0.9, BaseUncertainty: 0.9},
					TotalReviews: 120,
					Estimate:     confidence.Estimate{Point: 12, Lower: 8.8, Upper: 15.2},
				}, nil
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{"place_name":"Blue Door Cafe","category":"cafe","reviews_count":120}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp estimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, service.MethodCategoryHeuristic, resp.Method)
		assert.Equal(t, "cafe", resp.CategoryKey)
		assert.Equal(t, int64(120), resp.TotalReviews)
		assert.Equal(t, 12.0, resp.Point)
		assert.Equal(t, 8.8, resp.Lower)
		assert.Equal(t, 15.2, resp.Upper)
	})

	t.Run("star distribution estimate", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			EstimateFunc: func(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error) {
				assert.Equal(t, []int{10, 0, 0, 0, 0}, sig.StarCounts)
				return service.ConfidenceReport{
					Method:       service.MethodStarDistribution,
					TotalReviews: 10,
					Estimate:     confidence.Estimate{Point: 100, Lower: 100, Upper: 100},
				}, nil
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{"place_name":"Blue Door Cafe","star_counts":[10,0,0,0,0]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp estimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, service.MethodStarDistribution, resp.Method)
		assert.Equal(t, 100.0, resp.Point)
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		handlers := NewHandlers(&mocks.MockEstimatorService{}, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("insufficient data returns 422", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			EstimateFunc: func(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error) {
				return service.ConfidenceReport{}, service.ErrInsufficientData
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{"category":"cafe"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "not enough review data")
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			EstimateFunc: func(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error) {
				return service.ConfidenceReport{}, service.ErrStorageFailure
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{"place_name":"Somewhere","reviews_count":5}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("cache hit skips the estimator", func(t *testing.T) {
		cached := estimateResponse{Method: service.MethodCategoryHeuristic, CategoryKey: "bar", Point: 42}
		mockCache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				*dest.(*estimateResponse) = cached
				return nil
			},
		}
		// EstimateFunc intentionally unset: a synchronous call would error
		handlers := NewHandlers(&mocks.MockEstimatorService{}, mockCache, zap.NewNop(), time.Minute)

		rec := postEstimate(t, handlers, `{"place_name":"Bar Centrale","reviews_count":7}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp estimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 42.0, resp.Point)
		assert.Equal(t, "bar", resp.CategoryKey)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("successful listing", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			CategoriesFunc: func(ctx context.Context) ([]service.CategoryInfo, error) {
				return []service.CategoryInfo{
					{Key: "restaurant", Profile: confidence.CategoryProfile{MaxReviews: 1500, Weight: 0.95, BaseUncertainty: 0.9}},
					{Key: confidence.GenericKey, Profile: confidence.CategoryProfile{MaxReviews: 800, Weight: 0.85, BaseUncertainty: 1.0}},
				}, nil
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
		rec := httptest.NewRecorder()
		handlers.ListCategories(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp categoriesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Categories, 2)
		assert.Equal(t, "restaurant", resp.Categories[0].Key)
		assert.Equal(t, confidence.GenericKey, resp.Categories[1].Key)
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		mockEstimator := &mocks.MockEstimatorService{
			CategoriesFunc: func(ctx context.Context) ([]service.CategoryInfo, error) {
				return nil, service.ErrStorageFailure
			},
		}
		handlers := NewHandlers(mockEstimator, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
		rec := httptest.NewRecorder()
		handlers.ListCategories(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

// TestNormalizeKey tests cache key generation
func TestNormalizeKey(t *testing.T) {
	t.Run("case and whitespace insensitive", func(t *testing.T) {
		a := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "Blue Door Cafe", Category: "Cafe", ReviewsCount: int64Ptr(10)})
		b := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "  blue door cafe ", Category: "cafe", ReviewsCount: int64Ptr(10)})
		assert.Equal(t, a, b)
	})

	t.Run("review count changes the key", func(t *testing.T) {
		a := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x", ReviewsCount: int64Ptr(10)})
		b := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x", ReviewsCount: int64Ptr(11)})
		assert.NotEqual(t, a, b)
	})

	t.Run("absent count differs from zero count", func(t *testing.T) {
		a := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x"})
		b := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x", ReviewsCount: int64Ptr(0)})
		assert.NotEqual(t, a, b)
	})

	t.Run("star counts change the key", func(t *testing.T) {
		a := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x", StarCounts: []int{1, 0, 0, 0, 0}})
		b := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x", StarCounts: []int{0, 1, 0, 0, 0}})
		assert.NotEqual(t, a, b)
	})

	t.Run("prefix is preserved", func(t *testing.T) {
		key := normalizeKey(cacheKeyEstimate, service.ReviewSignal{PlaceName: "x"})
		assert.True(t, strings.HasPrefix(key, string(cacheKeyEstimate)+":"))
	})
}
