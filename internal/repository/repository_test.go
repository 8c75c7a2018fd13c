package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// TestPerformanceRepositoryUpsert tests idempotent stat line ingestion
func TestPerformanceRepositoryUpsert(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	perf := &models.PlayerPerformance{
		PlayerName:     "Test Player Upsert",
		Season:         2024,
		MatchesPlayed:  14,
		RunsScored:     512,
		BattingAverage: 42.6,
		StrikeRate:     138.2,
	}

	if err := repos.Performance.Upsert(ctx, perf); err != nil {
		t.Fatalf("failed to upsert performance: %v", err)
	}

	// Second upsert with updated stats must replace, not duplicate
	perf.RunsScored = 600
	if err := repos.Performance.Upsert(ctx, perf); err != nil {
		t.Fatalf("failed to upsert performance twice: %v", err)
	}

	seasons, err := repos.Performance.GetByPlayer(ctx, "Test Player Upsert")
	if err != nil {
		t.Fatalf("failed to retrieve performances: %v", err)
	}

	if len(seasons) != 1 {
		t.Fatalf("expected 1 season, got %d", len(seasons))
	}

	if seasons[0].RunsScored != 600 {
		t.Errorf("expected updated runs 600, got %v", seasons[0].RunsScored)
	}
}

// TestPerformanceRepositoryBatch tests batch ingestion and season ordering
func TestPerformanceRepositoryBatch(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	perfs := make([]*models.PlayerPerformance, 0, 3)
	for _, season := range []int{2024, 2022, 2023} {
		perfs = append(perfs, &models.PlayerPerformance{
			PlayerName:    "Test Player Batch",
			Season:        season,
			MatchesPlayed: 10,
			RunsScored:    float64(season - 2000),
		})
	}

	if err := repos.Performance.UpsertBatch(ctx, perfs); err != nil {
		t.Fatalf("failed to batch upsert: %v", err)
	}

	seasons, err := repos.Performance.GetByPlayer(ctx, "Test Player Batch")
	if err != nil {
		t.Fatalf("failed to retrieve performances: %v", err)
	}

	if len(seasons) != 3 {
		t.Fatalf("expected 3 seasons, got %d", len(seasons))
	}

	for i := 1; i < len(seasons); i++ {
		if seasons[i].Season <= seasons[i-1].Season {
			t.Errorf("expected ascending season order, got %d before %d", seasons[i-1].Season, seasons[i].Season)
		}
	}
}

// TestModelRepositoryActivation tests single-active-model semantics per class
func TestModelRepositoryActivation(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	metrics, _ := json.Marshal(map[string]float64{"mae": 9.1})

	first := &models.ModelArtifact{
		ID:        uuid.New(),
		Class:     models.ClassBatting,
		Version:   "batting-test-v1",
		Path:      "/tmp/batting-test-v1.model",
		Trees:     200,
		Samples:   400,
		Metrics:   metrics,
		TrainedAt: time.Now().UTC(),
		Active:    true,
	}
	second := &models.ModelArtifact{
		ID:        uuid.New(),
		Class:     models.ClassBatting,
		Version:   "batting-test-v2",
		Path:      "/tmp/batting-test-v2.model",
		Trees:     200,
		Samples:   450,
		Metrics:   metrics,
		TrainedAt: time.Now().UTC(),
	}

	if err := repos.Model.Create(ctx, first); err != nil {
		t.Fatalf("failed to create first artifact: %v", err)
	}
	if err := repos.Model.Create(ctx, second); err != nil {
		t.Fatalf("failed to create second artifact: %v", err)
	}

	if err := repos.Model.SetActive(ctx, second.ID); err != nil {
		t.Fatalf("failed to activate second artifact: %v", err)
	}

	active, err := repos.Model.GetActiveByClass(ctx, models.ClassBatting)
	if err != nil {
		t.Fatalf("failed to get active model: %v", err)
	}

	if active.ID != second.ID {
		t.Errorf("expected active model %v, got %v", second.ID, active.ID)
	}

	old, err := repos.Model.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("failed to get first artifact: %v", err)
	}
	if old.Active {
		t.Error("expected first artifact to be deactivated")
	}
}

// TestPredictionRepositoryAuditTrail tests the served prediction log
func TestPredictionRepositoryAuditTrail(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	preds := make([]*models.PredictionResult, 0, 5)
	for i := 0; i < 5; i++ {
		preds = append(preds, &models.PredictionResult{
			PlayerName:  "Test Player Audit",
			Class:       models.ClassBatting,
			Mean:        40 + float64(i),
			Lower:       30 + float64(i),
			Upper:       50 + float64(i),
			PredictedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
	}

	if err := repos.Prediction.InsertBatch(ctx, preds, "batting-test-v1"); err != nil {
		t.Fatalf("failed to insert prediction batch: %v", err)
	}

	recent, err := repos.Prediction.GetRecentByPlayer(ctx, "Test Player Audit", models.ClassBatting, 3)
	if err != nil {
		t.Fatalf("failed to query recent predictions: %v", err)
	}

	if len(recent) != 3 {
		t.Fatalf("expected 3 recent predictions, got %d", len(recent))
	}

	// Most recent first
	if recent[0].Mean != 44 {
		t.Errorf("expected most recent mean 44, got %v", recent[0].Mean)
	}
}
