package database

import (
	"context"
	"fmt"

	"github.com/yourusername/wicket-predictor/internal/config"
)

// schema holds the tables backing ingestion, model tracking and the
// prediction audit trail. Applied idempotently on startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS player_performances (
		id UUID PRIMARY KEY,
		player_name TEXT NOT NULL,
		season INTEGER NOT NULL,
		matches_played DOUBLE PRECISION NOT NULL DEFAULT 0,
		runs_scored DOUBLE PRECISION NOT NULL DEFAULT 0,
		batting_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		strike_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		wickets_taken DOUBLE PRECISION NOT NULL DEFAULT 0,
		bowling_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		economy_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		catches_taken DOUBLE PRECISION NOT NULL DEFAULT 0,
		stumpings DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (player_name, season)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_performances_player
		ON player_performances (player_name)`,
	`CREATE TABLE IF NOT EXISTS models (
		id UUID PRIMARY KEY,
		class TEXT NOT NULL,
		version TEXT NOT NULL,
		path TEXT NOT NULL,
		trees INTEGER NOT NULL,
		samples INTEGER NOT NULL,
		metrics JSONB,
		trained_at TIMESTAMPTZ NOT NULL,
		active BOOLEAN NOT NULL DEFAULT false,
		UNIQUE (class, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_models_class_active
		ON models (class) WHERE active`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id BIGSERIAL PRIMARY KEY,
		player_name TEXT NOT NULL,
		class TEXT NOT NULL,
		model_version TEXT NOT NULL,
		mean DOUBLE PRECISION NOT NULL,
		lower DOUBLE PRECISION NOT NULL,
		upper DOUBLE PRECISION NOT NULL,
		predicted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_player_class
		ON predictions (player_name, class)`,
}

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplySchema creates the tables and indexes if they do not exist yet
func ApplySchema(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
