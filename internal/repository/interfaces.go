package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// PerformanceRepository defines the interface for player performance data access
type PerformanceRepository interface {
	Upsert(ctx context.Context, perf *models.PlayerPerformance) error
	UpsertBatch(ctx context.Context, perfs []*models.PlayerPerformance) error
	GetByPlayer(ctx context.Context, playerName string) ([]*models.PlayerPerformance, error)
	GetAll(ctx context.Context) ([]*models.PlayerPerformance, error)
	GetBySeasonRange(ctx context.Context, startSeason, endSeason int) ([]*models.PlayerPerformance, error)
	CountPlayers(ctx context.Context) (int, error)
}

// ModelRepository defines the interface for trained model metadata access
type ModelRepository interface {
	Create(ctx context.Context, artifact *models.ModelArtifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ModelArtifact, error)
	GetActive(ctx context.Context) ([]*models.ModelArtifact, error)
	GetActiveByClass(ctx context.Context, class models.StatClass) (*models.ModelArtifact, error)
	GetByVersion(ctx context.Context, class models.StatClass, version string) (*models.ModelArtifact, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// PredictionRepository defines the interface for the prediction audit trail
type PredictionRepository interface {
	Insert(ctx context.Context, pred *models.PredictionResult, modelVersion string) error
	InsertBatch(ctx context.Context, preds []*models.PredictionResult, modelVersion string) error
	GetRecentByPlayer(ctx context.Context, playerName string, class models.StatClass, limit int) ([]*models.PredictionResult, error)
}
