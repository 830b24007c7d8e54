package service

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/placelens/confidence-server/internal/confidence"
	"github.com/placelens/confidence-server/internal/repository"
	dbbuilder "github.com/placelens/confidence-server/pkg/database"
)

func setupRealDB(tb testing.TB) *repository.CategoryProfileRepository {
	tb.Helper()

	db, err := dbbuilder.New(
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	repo := repository.NewCategoryProfileRepository(db)
	if err := repo.Seed(context.Background(), confidence.DefaultProfiles); err != nil {
		tb.Fatalf("failed to seed profiles: %v", err)
	}
	return repo
}

func BenchmarkEstimateFromCountPath(b *testing.B) {
	repo := setupRealDB(b)
	svc := NewConfidenceService(repo, zap.NewNop())

	reviews := int64(742)
	sig := ReviewSignal{
		PlaceName:    "Grand Hotel Plaza",
		Category:     "hotel",
		ReviewsCount: &reviews,
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = svc.Estimate(context.Background(), sig)
	}
}

func BenchmarkEstimateStarPath(b *testing.B) {
	repo := setupRealDB(b)
	svc := NewConfidenceService(repo, zap.NewNop())

	sig := ReviewSignal{
		PlaceName:  "Blue Door Cafe",
		Category:   "cafe",
		StarCounts: []int{120, 40, 12, 6, 3},
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = svc.Estimate(context.Background(), sig)
	}
}
