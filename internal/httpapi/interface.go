package httpapi

import (
	"context"
	"time"

	"github.com/placelens/confidence-server/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// EstimatorService is the confidence service surface the handlers depend on.
type EstimatorService interface {
	Estimate(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error)
	Categories(ctx context.Context) ([]service.CategoryInfo, error)
}
