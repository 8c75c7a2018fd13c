// Package ensemble implements the per-class random forest predictors. Each
// stat class (batting, bowling, fielding) trains an independent fixed-size
// ensemble of regression trees; per-tree spread at prediction time serves as
// a disagreement interval around the mean.
package ensemble

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// Config controls forest training.
type Config struct {
	Trees          int
	MinSamplesLeaf int
	MaxDepth       int
	Seed           int64
	Workers        int
}

// DefaultConfig returns the recommended training defaults.
func DefaultConfig() Config {
	return Config{
		Trees:          200,
		MinSamplesLeaf: 2,
		MaxDepth:       10,
		Seed:           42,
		Workers:        4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Trees <= 0 {
		c.Trees = d.Trees
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = d.MinSamplesLeaf
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}

// Forest is an ordered, fixed-size collection of independently trained
// regression trees sharing one feature schema. A forest is immutable after
// training; retraining produces a new forest that replaces the old one
// wholesale.
type Forest struct {
	Class        models.StatClass
	FeatureNames []string
	Trees        []*Tree
	SampleCount  int
	TrainedAt    time.Time
}

// Train fits a forest for one stat class on the full example set. Zero
// examples is a fatal configuration error.
func Train(ctx context.Context, examples []models.TrainingExample, class models.StatClass, cfg Config) (*Forest, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("unknown stat class %q", class)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("training %s model: %w", class, models.ErrInsufficientData)
	}
	cfg = cfg.withDefaults()

	names := FeatureNames(class)
	x := make([][]float64, len(examples))
	y := make([]float64, len(examples))
	for i, ex := range examples {
		x[i] = ExtractFeatures(class, ex.Features)
		y[i] = labelFor(class, ex)
	}

	trees := make([]*Tree, cfg.Trees)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for t := 0; t < cfg.Trees; t++ {
		t := t
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))
			sample := bootstrapSample(len(examples), rng)
			trees[t] = &Tree{Root: growTree(x, y, sample, cfg, rng, 0)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("training %s model: %w", class, err)
	}

	return &Forest{
		Class:        class,
		FeatureNames: names,
		Trees:        trees,
		SampleCount:  len(examples),
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// Predict runs every tree on the same feature row. The mean is the
// arithmetic mean across trees and the bounds are the 2.5th and 97.5th
// percentiles of the per-tree predictions. The interval quantifies how much
// the trees disagree; it is not a calibrated confidence interval.
func (f *Forest) Predict(features []float64) (models.PredictionResult, error) {
	if f == nil || len(f.Trees) == 0 {
		return models.PredictionResult{}, models.ErrModelNotTrained
	}
	if len(features) != len(f.FeatureNames) {
		return models.PredictionResult{}, fmt.Errorf("%w: expected %d features, got %d",
			models.ErrMalformedFeatures, len(f.FeatureNames), len(features))
	}

	row := make([]float64, len(features))
	for i, v := range features {
		row[i] = sanitize(v)
	}

	preds := make([]float64, len(f.Trees))
	for i, tree := range f.Trees {
		preds[i] = tree.Predict(row)
	}

	mean := stat.Mean(preds, nil)
	sort.Float64s(preds)

	return models.PredictionResult{
		Class:       f.Class,
		Mean:        mean,
		Lower:       percentile(preds, 2.5),
		Upper:       percentile(preds, 97.5),
		PredictedAt: time.Now().UTC(),
	}, nil
}

// PredictVector extracts the class's feature schema from a feature vector
// and predicts on it.
func (f *Forest) PredictVector(fv models.FeatureVector) (models.PredictionResult, error) {
	if f == nil || len(f.Trees) == 0 {
		return models.PredictionResult{}, models.ErrModelNotTrained
	}
	result, err := f.Predict(ExtractFeatures(f.Class, fv))
	if err != nil {
		return models.PredictionResult{}, err
	}
	result.PlayerName = fv.PlayerName
	return result, nil
}

// Version identifies the trained artifact by class and training time.
func (f *Forest) Version() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s", f.Class, f.TrainedAt.Format("20060102T150405Z"))
}

func bootstrapSample(n int, rng *rand.Rand) []int {
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.Intn(n)
	}
	return sample
}

// percentile interpolates linearly between order statistics, matching the
// convention used when the intervals were first calibrated.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
