package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/models"
)

const modelColumns = `id, class, version, path, trees, samples, metrics, trained_at, active`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new model artifact record
func (m *PostgresModelRepository) Create(ctx context.Context, artifact *models.ModelArtifact) error {
	query := `
		INSERT INTO models (id, class, version, path, trees, samples, metrics, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		artifact.ID, artifact.Class, artifact.Version, artifact.Path,
		artifact.Trees, artifact.Samples, artifact.Metrics, artifact.TrainedAt, artifact.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create model artifact: %w", err)
	}

	return nil
}

// GetByID retrieves a model artifact by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ModelArtifact, error) {
	query := fmt.Sprintf(`SELECT %s FROM models WHERE id = $1`, modelColumns)

	artifact := &models.ModelArtifact{}
	err := m.db.GetPool().QueryRow(ctx, query, id).Scan(
		&artifact.ID, &artifact.Class, &artifact.Version, &artifact.Path,
		&artifact.Trees, &artifact.Samples, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model artifact: %w", err)
	}

	return artifact, nil
}

// GetActive retrieves the active model artifact per stat class
func (m *PostgresModelRepository) GetActive(ctx context.Context) ([]*models.ModelArtifact, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM models
		WHERE active = true
		ORDER BY class ASC, version DESC
	`, modelColumns)

	rows, err := m.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active models: %w", err)
	}
	defer rows.Close()

	var artifacts []*models.ModelArtifact
	for rows.Next() {
		artifact := &models.ModelArtifact{}
		err := rows.Scan(
			&artifact.ID, &artifact.Class, &artifact.Version, &artifact.Path,
			&artifact.Trees, &artifact.Samples, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model artifact: %w", err)
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, rows.Err()
}

// GetActiveByClass retrieves the active model for one stat class
func (m *PostgresModelRepository) GetActiveByClass(ctx context.Context, class models.StatClass) (*models.ModelArtifact, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM models
		WHERE class = $1 AND active = true
	`, modelColumns)

	artifact := &models.ModelArtifact{}
	err := m.db.GetPool().QueryRow(ctx, query, class).Scan(
		&artifact.ID, &artifact.Class, &artifact.Version, &artifact.Path,
		&artifact.Trees, &artifact.Samples, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active model for class: %w", err)
	}

	return artifact, nil
}

// GetByVersion retrieves a specific model version
func (m *PostgresModelRepository) GetByVersion(ctx context.Context, class models.StatClass, version string) (*models.ModelArtifact, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM models
		WHERE class = $1 AND version = $2
	`, modelColumns)

	artifact := &models.ModelArtifact{}
	err := m.db.GetPool().QueryRow(ctx, query, class, version).Scan(
		&artifact.ID, &artifact.Class, &artifact.Version, &artifact.Path,
		&artifact.Trees, &artifact.Samples, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model by version: %w", err)
	}

	return artifact, nil
}

// SetActive sets a model as active and deactivates other versions of its class
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	// First get the artifact to find its class
	artifact, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Start transaction
	tx, err := m.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Deactivate all other versions of this class
	_, err = tx.Exec(ctx, "UPDATE models SET active = false WHERE class = $1 AND id != $2", artifact.Class, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate other versions: %w", err)
	}

	// Activate this version
	_, err = tx.Exec(ctx, "UPDATE models SET active = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to activate model: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
