package ensemble

import (
	"context"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wicket-predictor/internal/models"
)

func testConfig() Config {
	return Config{
		Trees:          30,
		MinSamplesLeaf: 2,
		MaxDepth:       8,
		Seed:           42,
		Workers:        2,
	}
}

// syntheticExamples builds a batting dataset where next-season runs track
// the career batting average, so a fitted forest has real signal to learn.
func syntheticExamples(n int) []models.TrainingExample {
	rng := rand.New(rand.NewSource(7))
	examples := make([]models.TrainingExample, n)
	for i := range examples {
		avg := 15 + rng.Float64()*35
		fv := models.FeatureVector{
			PlayerName:           "Player",
			Season:               2020,
			BattingAverage:       avg,
			StrikeRate:           100 + rng.Float64()*40,
			RunsScored:           avg * 10,
			RunsRolling:          avg * 10,
			CareerBattingAverage: avg,
			CareerStrikeRate:     120,
			CareerRuns:           avg * 30,
			CareerMatches:        30,
			FormFactor:           1,
		}
		fv.ApplyRoleFlags()
		examples[i] = models.TrainingExample{
			Features: fv,
			Labels:   models.TrainingLabels{Runs: avg*10 + rng.Float64()*20},
		}
	}
	return examples
}

func TestTrainAndPredict(t *testing.T) {
	examples := syntheticExamples(80)

	forest, err := Train(context.Background(), examples, models.ClassBatting, testConfig())
	require.NoError(t, err)
	require.Len(t, forest.Trees, 30)
	assert.Equal(t, 80, forest.SampleCount)

	result, err := forest.PredictVector(examples[0].Features)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Lower, result.Mean)
	assert.LessOrEqual(t, result.Mean, result.Upper)
	assert.False(t, math.IsNaN(result.Mean))

	// A strong batter predicts more runs than a weak one
	strong := examples[0].Features
	strong.CareerBattingAverage = 50
	strong.BattingAverage = 50
	strong.RunsScored = 500
	strong.RunsRolling = 500

	weak := examples[0].Features
	weak.CareerBattingAverage = 16
	weak.BattingAverage = 16
	weak.RunsScored = 160
	weak.RunsRolling = 160

	strongResult, err := forest.PredictVector(strong)
	require.NoError(t, err)
	weakResult, err := forest.PredictVector(weak)
	require.NoError(t, err)
	assert.Greater(t, strongResult.Mean, weakResult.Mean)
}

func TestTrainDeterministicForSeed(t *testing.T) {
	examples := syntheticExamples(60)
	ctx := context.Background()

	first, err := Train(ctx, examples, models.ClassBatting, testConfig())
	require.NoError(t, err)
	second, err := Train(ctx, examples, models.ClassBatting, testConfig())
	require.NoError(t, err)

	r1, err := first.PredictVector(examples[3].Features)
	require.NoError(t, err)
	r2, err := second.PredictVector(examples[3].Features)
	require.NoError(t, err)

	assert.Equal(t, r1.Mean, r2.Mean)
	assert.Equal(t, r1.Lower, r2.Lower)
	assert.Equal(t, r1.Upper, r2.Upper)
}

func TestTrainEmptyExamples(t *testing.T) {
	_, err := Train(context.Background(), nil, models.ClassBatting, testConfig())
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestTrainUnknownClass(t *testing.T) {
	_, err := Train(context.Background(), syntheticExamples(10), models.StatClass("batting_strike"), testConfig())
	assert.Error(t, err)
}

func TestPredictFeatureCountMismatch(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(40), models.ClassBatting, testConfig())
	require.NoError(t, err)

	_, err = forest.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, models.ErrMalformedFeatures)
}

func TestPredictSanitizesNonFiniteInput(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(40), models.ClassBatting, testConfig())
	require.NoError(t, err)

	row := make([]float64, len(forest.FeatureNames))
	row[0] = math.NaN()
	row[1] = math.Inf(1)

	result, err := forest.Predict(row)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(result.Mean))
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 10, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 40, percentile(sorted, 100), 1e-9)
	assert.InDelta(t, 25, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 10.75, percentile(sorted, 2.5), 1e-9)

	assert.InDelta(t, 7, percentile([]float64{7}, 97.5), 1e-9)
	assert.Zero(t, percentile(nil, 50))
}

func TestEvaluateMetrics(t *testing.T) {
	examples := syntheticExamples(100)
	train, holdout := examples[:80], examples[80:]

	forest, err := Train(context.Background(), train, models.ClassBatting, testConfig())
	require.NoError(t, err)

	metrics, err := Evaluate(forest, holdout)
	require.NoError(t, err)

	assert.Equal(t, 20, metrics.Samples)
	assert.Greater(t, metrics.MAE, 0.0)
	assert.GreaterOrEqual(t, metrics.RMSE, metrics.MAE)
	// Labels track the features closely, so the fit explains most variance
	assert.Greater(t, metrics.R2, 0.5)
}

func TestEvaluateEmptyHoldout(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(40), models.ClassBatting, testConfig())
	require.NoError(t, err)

	metrics, err := Evaluate(forest, nil)
	require.NoError(t, err)
	assert.Zero(t, metrics.Samples)
}

func TestStoreRoundTrip(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(50), models.ClassBatting, testConfig())
	require.NoError(t, err)

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(forest)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := store.Load(models.ClassBatting)
	require.NoError(t, err)
	assert.Equal(t, forest.Class, loaded.Class)
	assert.Len(t, loaded.Trees, len(forest.Trees))

	// The reloaded forest predicts identically
	fv := syntheticExamples(1)[0].Features
	orig, err := forest.PredictVector(fv)
	require.NoError(t, err)
	reread, err := loaded.PredictVector(fv)
	require.NoError(t, err)
	assert.Equal(t, orig.Mean, reread.Mean)
}

func TestStoreLoadMissingModel(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(models.ClassBowling)
	assert.ErrorIs(t, err, models.ErrModelNotTrained)
}

func TestManagerPublishAndLoad(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(40), models.ClassBatting, testConfig())
	require.NoError(t, err)

	m := NewManager()
	assert.False(t, m.Loaded())

	_, err = m.Forest(models.ClassBatting)
	assert.ErrorIs(t, err, models.ErrModelNotTrained)

	m.Publish(forest)
	assert.True(t, m.Loaded())

	got, err := m.Forest(models.ClassBatting)
	require.NoError(t, err)
	assert.Equal(t, forest.Version(), got.Version())
}

func TestManagerLoadAllSkipsMissingClasses(t *testing.T) {
	forest, err := Train(context.Background(), syntheticExamples(40), models.ClassBatting, testConfig())
	require.NoError(t, err)

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save(forest)
	require.NoError(t, err)

	m := NewManager()
	require.NoError(t, m.LoadAll(store))

	_, err = m.Forest(models.ClassBatting)
	assert.NoError(t, err)
	_, err = m.Forest(models.ClassBowling)
	assert.ErrorIs(t, err, models.ErrModelNotTrained)
}
