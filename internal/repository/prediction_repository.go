package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert records one served prediction
func (p *PostgresPredictionRepository) Insert(ctx context.Context, pred *models.PredictionResult, modelVersion string) error {
	query := `
		INSERT INTO predictions (player_name, class, model_version, mean, lower, upper, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		pred.PlayerName, pred.Class, modelVersion, pred.Mean, pred.Lower, pred.Upper, pred.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch records served predictions in a single batch
func (p *PostgresPredictionRepository) InsertBatch(ctx context.Context, preds []*models.PredictionResult, modelVersion string) error {
	if len(preds) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO predictions (player_name, class, model_version, mean, lower, upper, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, pred := range preds {
		batch.Queue(query,
			pred.PlayerName, pred.Class, modelVersion, pred.Mean, pred.Lower, pred.Upper, pred.PredictedAt,
		)
	}

	results := p.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range preds {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert prediction batch: %w", err)
		}
	}

	return nil
}

// GetRecentByPlayer retrieves the most recent predictions for one player and class
func (p *PostgresPredictionRepository) GetRecentByPlayer(ctx context.Context, playerName string, class models.StatClass, limit int) ([]*models.PredictionResult, error) {
	query := `
		SELECT player_name, class, mean, lower, upper, predicted_at
		FROM predictions
		WHERE player_name = $1 AND class = $2
		ORDER BY predicted_at DESC
		LIMIT $3
	`

	rows, err := p.db.GetPool().Query(ctx, query, playerName, class, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.PredictionResult
	for rows.Next() {
		pred := &models.PredictionResult{}
		err := rows.Scan(&pred.PlayerName, &pred.Class, &pred.Mean, &pred.Lower, &pred.Upper, &pred.PredictedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	return preds, rows.Err()
}
