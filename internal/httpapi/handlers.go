package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/placelens/confidence-server/internal/confidence"
	"github.com/placelens/confidence-server/internal/service"
)

const (
	defaultCacheDuration  = 10 * time.Minute
	defaultRequestTimeout = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyEstimate   CacheKeyType = "http:place_estimate"
	cacheKeyCategories CacheKeyType = "http:category_table"
)

type Handlers struct {
	estimator EstimatorService
	cache     Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(estimator EstimatorService, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if estimator == nil {
		panic("nil EstimatorService provided to NewHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		estimator: estimator,
		cache:     cache,
		logger:    logger.Named("http-handler"),
		cacheTTL:  ttl,
	}
}

// Register mounts the API routes on the given router.
func (h *Handlers) Register(r chi.Router) {
	r.Post("/v1/estimate", h.EstimatePlace)
	r.Get("/v1/categories", h.ListCategories)
}

type estimateRequest struct {
	PlaceName    string `json:"place_name"`
	Category     string `json:"category"`
	ReviewsCount *int64 `json:"reviews_count,omitempty"`
	StarCounts   []int  `json:"star_counts,omitempty"`
}

type estimateResponse struct {
	Method       string                     `json:"method"`
	CategoryKey  string                     `json:"category_key"`
	Profile      confidence.CategoryProfile `json:"profile"`
	TotalReviews int64                      `json:"total_reviews"`
	Degenerate   bool                       `json:"degenerate,omitempty"`
	Point        float64                    `json:"point"`
	Lower        float64                    `json:"lower"`
	Upper        float64                    `json:"upper"`
}

type categoryEntry struct {
	Key     string                     `json:"key"`
	Profile confidence.CategoryProfile `json:"profile"`
}

type categoriesResponse struct {
	Categories []categoryEntry `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// normalizeKey derives a stable cache key from the normalized signal fields,
// so equivalent requests (case, surrounding whitespace) share an entry.
func normalizeKey(prefix CacheKeyType, sig service.ReviewSignal) string {
	d := fnv.New64a()
	fmt.Fprintf(d, "%s|%s|",
		strings.ToLower(strings.TrimSpace(sig.PlaceName)),
		strings.ToLower(strings.TrimSpace(sig.Category)))
	if sig.ReviewsCount != nil {
		fmt.Fprintf(d, "%d", *sig.ReviewsCount)
	}
	fmt.Fprintf(d, "|%v", sig.StarCounts)
	return fmt.Sprintf("%s:%016x", prefix, d.Sum64())
}

func (h *Handlers) handleError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		writeJSON(w, http.StatusRequestTimeout, errorResponse{Error: "request canceled"})
		return
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
		return
	}

	switch {
	case errors.Is(err, service.ErrInsufficientData):
		h.logger.Info("insufficient review data", zap.String("op", op))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "not enough review data to estimate confidence"})
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "database error"})
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: op + " failed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// EstimatePlace handles POST /v1/estimate.
func (h *Handlers) EstimatePlace(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sig := service.ReviewSignal{
		PlaceName:    req.PlaceName,
		Category:     req.Category,
		ReviewsCount: req.ReviewsCount,
		StarCounts:   req.StarCounts,
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyEstimate, sig)

	resp, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKey, h.cacheTTL, h.logger, func(fetchCtx context.Context) (estimateResponse, error) {
		report, err := h.estimator.Estimate(fetchCtx, sig)
		if err != nil {
			return estimateResponse{}, err
		}
		return estimateResponse{
			Method:       report.Method,
			CategoryKey:  report.CategoryKey,
			Profile:      report.Profile,
			TotalReviews: report.TotalReviews,
			Degenerate:   report.Degenerate,
			Point:        report.Estimate.Point,
			Lower:        report.Estimate.Lower,
			Upper:        report.Estimate.Upper,
		}, nil
	})
	if err != nil {
		h.handleError(ctx, w, "EstimatePlace", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /v1/categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	cacheKey := string(cacheKeyCategories)

	resp, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKey, h.cacheTTL, h.logger, func(fetchCtx context.Context) (categoriesResponse, error) {
		cats, err := h.estimator.Categories(fetchCtx)
		if err != nil {
			return categoriesResponse{}, err
		}
		entries := make([]categoryEntry, len(cats))
		for i, c := range cats {
			entries[i] = categoryEntry{Key: c.Key, Profile: c.Profile}
		}
		return categoriesResponse{Categories: entries}, nil
	})
	if err != nil {
		h.handleError(ctx, w, "ListCategories", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
