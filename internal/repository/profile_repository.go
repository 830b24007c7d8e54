package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/placelens/confidence-server/internal/confidence"
	"github.com/placelens/confidence-server/internal/repository/models"
)

// CategoryProfileRepository reads the hand-curated category weighting table.
// The database carries configuration only; estimates are never written back.
type CategoryProfileRepository struct {
	db *sql.DB
}

func NewCategoryProfileRepository(db *sql.DB) *CategoryProfileRepository {
	return &CategoryProfileRepository{db: db}
}

// ListProfiles returns every profile row ordered by priority. An empty result
// is not an error; callers fall back to the built-in defaults.
func (r *CategoryProfileRepository) ListProfiles(ctx context.Context) ([]models.CategoryProfileRow, error) {
	const query = `
		SELECT priority, key, max_reviews, weight, base_uncertainty
		FROM category_profiles
		ORDER BY priority ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListProfiles: %w", err)
	}
	defer rows.Close()

	var results []models.CategoryProfileRow
	for rows.Next() {
		var row models.CategoryProfileRow
		if err := rows.Scan(&row.Priority, &row.Key, &row.MaxReviews, &row.Weight, &row.BaseUncertainty); err != nil {
			return nil, fmt.Errorf("scan ListProfiles row: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListProfiles: %w", err)
	}
	return results, nil
}

// Seed creates the profile table if needed and installs the given entries,
// preserving their order as the priority column. Seeding is idempotent: an
// already-populated table is left untouched.
func (r *CategoryProfileRepository) Seed(ctx context.Context, entries []confidence.ProfileEntry) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS category_profiles (
			priority INTEGER PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			max_reviews INTEGER NOT NULL,
			weight REAL NOT NULL,
			base_uncertainty REAL NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create category_profiles: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_profiles`).Scan(&count); err != nil {
		return fmt.Errorf("count category_profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO category_profiles (priority, key, max_reviews, weight, base_uncertainty)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, insert, i, e.Key, e.Profile.MaxReviews, e.Profile.Weight, e.Profile.BaseUncertainty); err != nil {
			return fmt.Errorf("seed profile %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
