package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/wicket-predictor/internal/config"
)

// SetupTestDB creates a test database connection and applies the schema.
// Tests are skipped when WICKET_PREDICTOR_TEST_CONFIG is not set.
func SetupTestDB(t *testing.T) *DB {
	configPath := os.Getenv("WICKET_PREDICTOR_TEST_CONFIG")
	if configPath == "" {
		t.Skip("WICKET_PREDICTOR_TEST_CONFIG not set, skipping database test")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	// Create context for connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := ApplySchema(ctx, db); err != nil {
		t.Fatalf("failed to apply test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	db.Close()
}
