package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wicket-predictor/internal/config"
	"github.com/yourusername/wicket-predictor/internal/ensemble"
	"github.com/yourusername/wicket-predictor/internal/features"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/predcache"
)

// fakePerformanceRepo is an in-memory PerformanceRepository for tests
type fakePerformanceRepo struct {
	records []*models.PlayerPerformance
}

func (f *fakePerformanceRepo) Upsert(ctx context.Context, perf *models.PlayerPerformance) error {
	for i, existing := range f.records {
		if existing.PlayerName == perf.PlayerName && existing.Season == perf.Season {
			f.records[i] = perf
			return nil
		}
	}
	f.records = append(f.records, perf)
	return nil
}

func (f *fakePerformanceRepo) UpsertBatch(ctx context.Context, perfs []*models.PlayerPerformance) error {
	for _, perf := range perfs {
		if err := f.Upsert(ctx, perf); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakePerformanceRepo) GetByPlayer(ctx context.Context, playerName string) ([]*models.PlayerPerformance, error) {
	var out []*models.PlayerPerformance
	for _, rec := range f.records {
		if rec.PlayerName == playerName {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakePerformanceRepo) GetAll(ctx context.Context) ([]*models.PlayerPerformance, error) {
	return f.records, nil
}

func (f *fakePerformanceRepo) GetBySeasonRange(ctx context.Context, startSeason, endSeason int) ([]*models.PlayerPerformance, error) {
	var out []*models.PlayerPerformance
	for _, rec := range f.records {
		if rec.Season >= startSeason && rec.Season <= endSeason {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakePerformanceRepo) CountPlayers(ctx context.Context) (int, error) {
	seen := map[string]bool{}
	for _, rec := range f.records {
		seen[rec.PlayerName] = true
	}
	return len(seen), nil
}

// seedRepo fills the fake repo with a deterministic multi-season dataset
func seedRepo() *fakePerformanceRepo {
	repo := &fakePerformanceRepo{}
	players := []string{
		"Batter One", "Batter Two", "Batter Three", "Batter Four",
		"Bowler One", "Bowler Two", "Bowler Three",
		"Keeper One", "Rounder One", "Rounder Two",
	}

	for pi, name := range players {
		for season := 2019; season <= 2023; season++ {
			base := float64(pi + 1)
			repo.records = append(repo.records, &models.PlayerPerformance{
				PlayerName:     name,
				Season:         season,
				MatchesPlayed:  10 + base,
				RunsScored:     100*base + float64(season-2019)*25,
				BattingAverage: 20 + 3*base,
				StrikeRate:     110 + 5*base,
				WicketsTaken:   2 * base,
				BowlingAverage: 30 - base,
				EconomyRate:    7 + 0.2*base,
				CatchesTaken:   base,
				Stumpings:      0,
			})
		}
	}
	return repo
}

func testTrainingConfig(t *testing.T) config.TrainingConfig {
	return config.TrainingConfig{
		Trees:           25,
		MinSamplesLeaf:  2,
		MaxDepth:        8,
		Seed:            42,
		Workers:         2,
		HoldoutFraction: 0.2,
		ModelDir:        t.TempDir(),
	}
}

func trainedServices(t *testing.T) (*fakePerformanceRepo, *ensemble.Manager, *PredictionService) {
	t.Helper()

	repo := seedRepo()
	cfg := testTrainingConfig(t)
	logger := serviceTestLogger()

	store, err := ensemble.NewStore(cfg.ModelDir)
	require.NoError(t, err)

	manager := ensemble.NewManager()
	builder := features.NewBuilder(logger)

	trainer := NewTrainingService(repo, nil, store, manager, builder, nil, cfg, logger)
	require.NoError(t, trainer.TrainAll(context.Background()))

	cache := predcache.NewPredictionCache(time.Minute, 100)
	svc := NewPredictionService(manager, builder, repo, nil, cache, logger)
	return repo, manager, svc
}

func TestTrainAllPublishesEveryClass(t *testing.T) {
	_, manager, _ := trainedServices(t)

	for _, class := range models.AllClasses {
		forest, err := manager.Forest(class)
		require.NoError(t, err, "class %s", class)
		assert.Equal(t, class, forest.Class)
		assert.NotEmpty(t, forest.Trees)
	}
}

func TestTrainAllPersistsArtifacts(t *testing.T) {
	repo := seedRepo()
	cfg := testTrainingConfig(t)
	logger := serviceTestLogger()

	store, err := ensemble.NewStore(cfg.ModelDir)
	require.NoError(t, err)

	manager := ensemble.NewManager()
	builder := features.NewBuilder(logger)

	trainer := NewTrainingService(repo, nil, store, manager, builder, nil, cfg, logger)
	require.NoError(t, trainer.TrainAll(context.Background()))

	// A fresh manager can load the saved models back from disk
	reloaded := ensemble.NewManager()
	require.NoError(t, reloaded.LoadAll(store))

	for _, class := range models.AllClasses {
		forest, err := reloaded.Forest(class)
		require.NoError(t, err, "class %s", class)
		assert.Equal(t, class, forest.Class)
	}
}

func TestTrainAllInsufficientData(t *testing.T) {
	repo := &fakePerformanceRepo{}
	cfg := testTrainingConfig(t)
	logger := serviceTestLogger()

	store, err := ensemble.NewStore(cfg.ModelDir)
	require.NoError(t, err)

	trainer := NewTrainingService(repo, nil, store, ensemble.NewManager(), features.NewBuilder(logger), nil, cfg, logger)
	err = trainer.TrainAll(context.Background())
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestPredictPlayer(t *testing.T) {
	_, _, svc := trainedServices(t)

	result, err := svc.PredictPlayer(context.Background(), "Batter One", models.ClassBatting)
	require.NoError(t, err)

	assert.Equal(t, "Batter One", result.PlayerName)
	assert.Equal(t, models.ClassBatting, result.Class)
	assert.LessOrEqual(t, result.Lower, result.Mean)
	assert.LessOrEqual(t, result.Mean, result.Upper)
}

func TestPredictPlayerUnknown(t *testing.T) {
	_, _, svc := trainedServices(t)

	_, err := svc.PredictPlayer(context.Background(), "Nobody", models.ClassBatting)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestPredictPlayerUsesCache(t *testing.T) {
	_, _, svc := trainedServices(t)
	ctx := context.Background()

	first, err := svc.PredictPlayer(ctx, "Batter Two", models.ClassBatting)
	require.NoError(t, err)

	second, err := svc.PredictPlayer(ctx, "Batter Two", models.ClassBatting)
	require.NoError(t, err)

	// Cached result is returned verbatim
	assert.Equal(t, first.Mean, second.Mean)
	assert.Equal(t, first.PredictedAt, second.PredictedAt)
}

func TestPredictMatch(t *testing.T) {
	_, _, svc := trainedServices(t)

	team1 := []string{"Batter One", "Batter Two", "Bowler One"}
	team2 := []string{"Batter Three", "Batter Four", "Bowler Two"}

	outcome, err := svc.PredictMatch(context.Background(), models.MatchContext{Venue: "Test Ground"}, team1, team2)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, outcome.Team1Probability+outcome.Team2Probability, 1e-9)
	assert.Greater(t, outcome.Team1Strength, 0.0)
	assert.Greater(t, outcome.Team2Strength, 0.0)
}

func TestPredictMatchUnknownPlayersNeutral(t *testing.T) {
	_, _, svc := trainedServices(t)

	// Neither side has any known players, so strength is zero and the
	// split falls back to even
	outcome, err := svc.PredictMatch(context.Background(), models.MatchContext{}, []string{"Ghost A"}, []string{"Ghost B"})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, outcome.Team1Probability, 1e-9)
	assert.InDelta(t, 0.5, outcome.Team2Probability, 1e-9)
}
