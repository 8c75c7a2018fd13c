package features

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wicket-predictor/internal/models"
)

func featuresTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seasonRecord(player string, season int, runs, wickets float64) models.PlayerPerformance {
	return models.PlayerPerformance{
		PlayerName:     player,
		Season:         season,
		MatchesPlayed:  10,
		RunsScored:     runs,
		BattingAverage: runs / 10,
		StrikeRate:     120,
		WicketsTaken:   wickets,
		BowlingAverage: 28,
		EconomyRate:    7.5,
		CatchesTaken:   3,
	}
}

func TestBuildFeaturesRollingWindow(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	records := []models.PlayerPerformance{
		seasonRecord("R Sharma", 2019, 300, 0),
		seasonRecord("R Sharma", 2020, 400, 0),
		seasonRecord("R Sharma", 2021, 500, 0),
		seasonRecord("R Sharma", 2022, 600, 0),
	}

	vectors := b.BuildFeatures(records)
	require.Len(t, vectors, 4)

	// First season: window holds one value
	assert.InDelta(t, 300, vectors[0].RunsRolling, 1e-9)
	// Third season: full window over 2019-2021
	assert.InDelta(t, 400, vectors[2].RunsRolling, 1e-9)
	// Fourth season: window slides, 2019 drops out
	assert.InDelta(t, 500, vectors[3].RunsRolling, 1e-9)
}

func TestBuildFeaturesCareerAggregates(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	records := []models.PlayerPerformance{
		seasonRecord("J Bumrah", 2020, 100, 25),
		seasonRecord("J Bumrah", 2021, 150, 30),
	}

	vectors := b.BuildFeatures(records)
	require.Len(t, vectors, 2)

	assert.InDelta(t, 100, vectors[0].CareerRuns, 1e-9)
	assert.InDelta(t, 250, vectors[1].CareerRuns, 1e-9)
	assert.InDelta(t, 55, vectors[1].CareerWickets, 1e-9)
	assert.InDelta(t, 20, vectors[1].CareerMatches, 1e-9)
}

func TestBuildFeaturesSeasonOrderIndependent(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	// Records arrive unordered; vectors come back season ascending
	records := []models.PlayerPerformance{
		seasonRecord("S Smith", 2022, 500, 0),
		seasonRecord("S Smith", 2020, 300, 0),
		seasonRecord("S Smith", 2021, 400, 0),
	}

	vectors := b.BuildFeatures(records)
	require.Len(t, vectors, 3)

	assert.Equal(t, 2020, vectors[0].Season)
	assert.Equal(t, 2021, vectors[1].Season)
	assert.Equal(t, 2022, vectors[2].Season)
	assert.InDelta(t, 300, vectors[0].CareerRuns, 1e-9)
	assert.InDelta(t, 1200, vectors[2].CareerRuns, 1e-9)
}

func TestBuildFeaturesRoleFlags(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	batsman := seasonRecord("V Kohli", 2022, 800, 0)
	batsman.BattingAverage = 48

	bowler := seasonRecord("N Lyon", 2022, 50, 45)
	bowler.BattingAverage = 11

	rounder := seasonRecord("B Stokes", 2022, 450, 22)
	rounder.BattingAverage = 38

	vectors := b.BuildFeatures([]models.PlayerPerformance{batsman, bowler, rounder})
	require.Len(t, vectors, 3)

	byName := make(map[string]models.FeatureVector)
	for _, fv := range vectors {
		byName[fv.PlayerName] = fv
	}

	assert.True(t, byName["V Kohli"].IsBatsman)
	assert.False(t, byName["V Kohli"].IsBowler)

	assert.True(t, byName["N Lyon"].IsBowler)
	assert.False(t, byName["N Lyon"].IsBatsman)

	assert.True(t, byName["B Stokes"].IsAllRounder)
}

func TestBuildFeaturesSanitizesBadCells(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	rec := seasonRecord("M Starc", 2021, 120, 28)
	rec.EconomyRate = -3.2

	vectors := b.BuildFeatures([]models.PlayerPerformance{rec})
	require.Len(t, vectors, 1)
	assert.Zero(t, vectors[0].EconomyRate)
}

func TestFormFactorNeutralWithoutHistory(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	rec := seasonRecord("Debutant", 2023, 0, 0)
	vectors := b.BuildFeatures([]models.PlayerPerformance{rec})
	require.Len(t, vectors, 1)
	assert.InDelta(t, 1.0, vectors[0].FormFactor, 1e-9)
}

func TestBuildTrainingExamplesNextSeasonLabels(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	records := []models.PlayerPerformance{
		seasonRecord("K Rahul", 2020, 300, 5),
		seasonRecord("K Rahul", 2021, 450, 8),
		seasonRecord("K Rahul", 2022, 600, 12),
	}

	examples := b.BuildTrainingExamples(records)
	require.Len(t, examples, 2)

	// Labels come from the season after the features
	assert.Equal(t, 2020, examples[0].Features.Season)
	assert.InDelta(t, 450, examples[0].Labels.Runs, 1e-9)
	assert.InDelta(t, 8, examples[0].Labels.Wickets, 1e-9)

	assert.Equal(t, 2021, examples[1].Features.Season)
	assert.InDelta(t, 600, examples[1].Labels.Runs, 1e-9)
}

func TestBuildTrainingExamplesSingleSeasonPlayer(t *testing.T) {
	b := NewBuilder(featuresTestLogger())

	examples := b.BuildTrainingExamples([]models.PlayerPerformance{
		seasonRecord("One Season", 2022, 200, 3),
	})
	assert.Empty(t, examples)
}
