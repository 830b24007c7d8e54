package service

import (
	"context"

	"github.com/placelens/confidence-server/internal/repository/models"
)

// ProfileRepository defines the database operations the service needs.
type ProfileRepository interface {
	ListProfiles(ctx context.Context) ([]models.CategoryProfileRow, error)
}
