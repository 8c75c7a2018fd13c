package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/models"
)

const performanceColumns = `id, player_name, season, matches_played, runs_scored,
	batting_average, strike_rate, wickets_taken, bowling_average, economy_rate,
	catches_taken, stumpings, created_at`

// PostgresPerformanceRepository implements PerformanceRepository for PostgreSQL
type PostgresPerformanceRepository struct {
	db *database.DB
}

// NewPostgresPerformanceRepository creates a new performance repository
func NewPostgresPerformanceRepository(db *database.DB) PerformanceRepository {
	return &PostgresPerformanceRepository{db: db}
}

// Upsert inserts or replaces one player-season stat line
func (r *PostgresPerformanceRepository) Upsert(ctx context.Context, perf *models.PlayerPerformance) error {
	if perf.ID == uuid.Nil {
		perf.ID = uuid.New()
	}

	query := `
		INSERT INTO player_performances (id, player_name, season, matches_played, runs_scored,
			batting_average, strike_rate, wickets_taken, bowling_average, economy_rate,
			catches_taken, stumpings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (player_name, season) DO UPDATE SET
			matches_played = EXCLUDED.matches_played,
			runs_scored = EXCLUDED.runs_scored,
			batting_average = EXCLUDED.batting_average,
			strike_rate = EXCLUDED.strike_rate,
			wickets_taken = EXCLUDED.wickets_taken,
			bowling_average = EXCLUDED.bowling_average,
			economy_rate = EXCLUDED.economy_rate,
			catches_taken = EXCLUDED.catches_taken,
			stumpings = EXCLUDED.stumpings
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		perf.ID, perf.PlayerName, perf.Season, perf.MatchesPlayed, perf.RunsScored,
		perf.BattingAverage, perf.StrikeRate, perf.WicketsTaken, perf.BowlingAverage,
		perf.EconomyRate, perf.CatchesTaken, perf.Stumpings,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert performance: %w", err)
	}

	return nil
}

// UpsertBatch inserts or replaces stat lines in a single transaction
func (r *PostgresPerformanceRepository) UpsertBatch(ctx context.Context, perfs []*models.PlayerPerformance) error {
	if len(perfs) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO player_performances (id, player_name, season, matches_played, runs_scored,
				batting_average, strike_rate, wickets_taken, bowling_average, economy_rate,
				catches_taken, stumpings)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (player_name, season) DO UPDATE SET
				matches_played = EXCLUDED.matches_played,
				runs_scored = EXCLUDED.runs_scored,
				batting_average = EXCLUDED.batting_average,
				strike_rate = EXCLUDED.strike_rate,
				wickets_taken = EXCLUDED.wickets_taken,
				bowling_average = EXCLUDED.bowling_average,
				economy_rate = EXCLUDED.economy_rate,
				catches_taken = EXCLUDED.catches_taken,
				stumpings = EXCLUDED.stumpings
		`

		for _, perf := range perfs {
			if perf.ID == uuid.Nil {
				perf.ID = uuid.New()
			}
			batch.Queue(query,
				perf.ID, perf.PlayerName, perf.Season, perf.MatchesPlayed, perf.RunsScored,
				perf.BattingAverage, perf.StrikeRate, perf.WicketsTaken, perf.BowlingAverage,
				perf.EconomyRate, perf.CatchesTaken, perf.Stumpings,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range perfs {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to upsert performance batch: %w", err)
			}
		}

		return nil
	})
}

// GetByPlayer retrieves all seasons for one player ordered by season
func (r *PostgresPerformanceRepository) GetByPlayer(ctx context.Context, playerName string) ([]*models.PlayerPerformance, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM player_performances
		WHERE player_name = $1
		ORDER BY season ASC
	`, performanceColumns)

	rows, err := r.db.GetPool().Query(ctx, query, playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to query performances: %w", err)
	}
	defer rows.Close()

	return scanPerformances(rows)
}

// GetAll retrieves every stat line ordered by player then season
func (r *PostgresPerformanceRepository) GetAll(ctx context.Context) ([]*models.PlayerPerformance, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM player_performances
		ORDER BY player_name ASC, season ASC
	`, performanceColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query performances: %w", err)
	}
	defer rows.Close()

	return scanPerformances(rows)
}

// GetBySeasonRange retrieves stat lines within an inclusive season range
func (r *PostgresPerformanceRepository) GetBySeasonRange(ctx context.Context, startSeason, endSeason int) ([]*models.PlayerPerformance, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM player_performances
		WHERE season >= $1 AND season <= $2
		ORDER BY player_name ASC, season ASC
	`, performanceColumns)

	rows, err := r.db.GetPool().Query(ctx, query, startSeason, endSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to query performances by season range: %w", err)
	}
	defer rows.Close()

	return scanPerformances(rows)
}

// CountPlayers returns the number of distinct players in the store
func (r *PostgresPerformanceRepository) CountPlayers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(DISTINCT player_name) FROM player_performances").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func scanPerformances(rows pgx.Rows) ([]*models.PlayerPerformance, error) {
	var perfs []*models.PlayerPerformance
	for rows.Next() {
		perf := &models.PlayerPerformance{}
		err := rows.Scan(
			&perf.ID, &perf.PlayerName, &perf.Season, &perf.MatchesPlayed, &perf.RunsScored,
			&perf.BattingAverage, &perf.StrikeRate, &perf.WicketsTaken, &perf.BowlingAverage,
			&perf.EconomyRate, &perf.CatchesTaken, &perf.Stumpings, &perf.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}
		perfs = append(perfs, perf)
	}
	return perfs, rows.Err()
}
