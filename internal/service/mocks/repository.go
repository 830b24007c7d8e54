package mocks

import (
	"context"
	"errors"

	"github.com/placelens/confidence-server/internal/repository/models"
)

// MockProfileRepository is a mock implementation of the ProfileRepository
// interface for testing the service layer.
type MockProfileRepository struct {
	ListProfilesFunc func(ctx context.Context) ([]models.CategoryProfileRow, error)
}

// ListProfiles implements the ProfileRepository interface
func (m *MockProfileRepository) ListProfiles(ctx context.Context) ([]models.CategoryProfileRow, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(ctx)
	}
	return nil, errors.New("ListProfilesFunc not implemented")
}
