package mocks

import (
	"context"
	"errors"

	"github.com/placelens/confidence-server/internal/service"
)

// MockEstimatorService is a mock implementation of the EstimatorService
// interface for testing the handler layer.
type MockEstimatorService struct {
	EstimateFunc   func(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error)
	CategoriesFunc func(ctx context.Context) ([]service.CategoryInfo, error)
}

// Estimate implements the EstimatorService interface
func (m *MockEstimatorService) Estimate(ctx context.Context, sig service.ReviewSignal) (service.ConfidenceReport, error) {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, sig)
	}
	return service.ConfidenceReport{}, errors.New("EstimateFunc not implemented")
}

// Categories implements the EstimatorService interface
func (m *MockEstimatorService) Categories(ctx context.Context) ([]service.CategoryInfo, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, errors.New("CategoriesFunc not implemented")
}
