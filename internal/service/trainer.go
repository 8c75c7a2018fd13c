package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/config"
	"github.com/yourusername/wicket-predictor/internal/ensemble"
	"github.com/yourusername/wicket-predictor/internal/features"
	"github.com/yourusername/wicket-predictor/internal/logger"
	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/predcache"
	"github.com/yourusername/wicket-predictor/internal/repository"
)

// TrainingService orchestrates end-to-end model training: loading records,
// building examples, fitting the ensembles, evaluating on a holdout set and
// publishing the result.
type TrainingService struct {
	perfRepo  repository.PerformanceRepository
	modelRepo repository.ModelRepository
	store     *ensemble.Store
	manager   *ensemble.Manager
	builder   *features.Builder
	cache     *predcache.PredictionCache
	cfg       config.TrainingConfig
	log       *logger.TrainingLogger
}

// NewTrainingService creates a new training service. modelRepo and cache
// are optional; pass nil to skip metadata persistence or cache invalidation.
func NewTrainingService(
	perfRepo repository.PerformanceRepository,
	modelRepo repository.ModelRepository,
	store *ensemble.Store,
	manager *ensemble.Manager,
	builder *features.Builder,
	cache *predcache.PredictionCache,
	cfg config.TrainingConfig,
	baseLogger *logrus.Logger,
) *TrainingService {
	return &TrainingService{
		perfRepo:  perfRepo,
		modelRepo: modelRepo,
		store:     store,
		manager:   manager,
		builder:   builder,
		cache:     cache,
		cfg:       cfg,
		log:       logger.NewTrainingLogger(baseLogger),
	}
}

// TrainAll trains and publishes one ensemble per stat class. A failed class
// is reported but does not block the others.
func (s *TrainingService) TrainAll(ctx context.Context) error {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	examples := s.builder.BuildTrainingExamples(records)

	var lastErr error
	for _, class := range models.AllClasses {
		if err := s.trainClass(ctx, class, examples); err != nil {
			s.log.LogTrainingFailed(string(class), err)
			metrics.RecordTrainingRun(string(class), "failure", 0)
			lastErr = err
		}
	}
	return lastErr
}

// TrainClass trains and publishes the ensemble for one stat class
func (s *TrainingService) TrainClass(ctx context.Context, class models.StatClass) error {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	examples := s.builder.BuildTrainingExamples(records)

	if err := s.trainClass(ctx, class, examples); err != nil {
		s.log.LogTrainingFailed(string(class), err)
		metrics.RecordTrainingRun(string(class), "failure", 0)
		return err
	}
	return nil
}

func (s *TrainingService) trainClass(ctx context.Context, class models.StatClass, examples []models.TrainingExample) error {
	startTime := time.Now()

	trainSet, holdout := s.splitExamples(examples)
	s.log.LogTrainingStarted(string(class), len(trainSet), s.cfg.Trees)

	forest, err := ensemble.Train(ctx, trainSet, class, s.ensembleConfig())
	if err != nil {
		return fmt.Errorf("training %s ensemble: %w", class, err)
	}

	evalMetrics, err := s.evaluate(forest, holdout)
	if err != nil {
		return fmt.Errorf("evaluating %s ensemble: %w", class, err)
	}

	path, err := s.store.Save(forest)
	if err != nil {
		return fmt.Errorf("saving %s ensemble: %w", class, err)
	}

	s.manager.Publish(forest)
	if s.cache != nil {
		s.cache.InvalidateClass(ctx, class)
	}

	if err := s.persistArtifact(ctx, forest, path, evalMetrics); err != nil {
		// The published model is already serving; metadata loss is non-fatal
		s.log.WithError(err).WithField("class", class).Warn("Failed to persist model metadata")
	}

	duration := time.Since(startTime).Seconds()
	s.log.LogTrainingCompleted(string(class), duration, evalMetrics, path)
	s.log.LogModelPublished(string(class), forest.Version(), forest.SampleCount)
	metrics.RecordTrainingRun(string(class), "success", duration)
	metrics.UpdateActiveModel(string(class), len(forest.Trees), forest.SampleCount, 0)

	return nil
}

// splitExamples deterministically shuffles and carves off the holdout set
func (s *TrainingService) splitExamples(examples []models.TrainingExample) (train, holdout []models.TrainingExample) {
	if s.cfg.HoldoutFraction <= 0 || len(examples) < 5 {
		return examples, nil
	}

	shuffled := make([]models.TrainingExample, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - int(float64(len(shuffled))*s.cfg.HoldoutFraction)
	if cut <= 0 || cut >= len(shuffled) {
		return shuffled, nil
	}
	return shuffled[:cut], shuffled[cut:]
}

func (s *TrainingService) evaluate(forest *ensemble.Forest, holdout []models.TrainingExample) (map[string]float64, error) {
	if len(holdout) == 0 {
		return nil, nil
	}

	em, err := ensemble.Evaluate(forest, holdout)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"samples": float64(em.Samples),
		"mae":     em.MAE,
		"rmse":    em.RMSE,
		"r2":      em.R2,
	}, nil
}

func (s *TrainingService) persistArtifact(ctx context.Context, forest *ensemble.Forest, path string, evalMetrics map[string]float64) error {
	if s.modelRepo == nil {
		return nil
	}

	var metricsJSON json.RawMessage
	if evalMetrics != nil {
		raw, err := json.Marshal(evalMetrics)
		if err != nil {
			return fmt.Errorf("marshalling metrics: %w", err)
		}
		metricsJSON = raw
	}

	artifact := &models.ModelArtifact{
		ID:        uuid.New(),
		Class:     forest.Class,
		Version:   forest.Version(),
		Path:      path,
		Trees:     len(forest.Trees),
		Samples:   forest.SampleCount,
		Metrics:   metricsJSON,
		TrainedAt: forest.TrainedAt,
	}

	if err := s.modelRepo.Create(ctx, artifact); err != nil {
		return err
	}
	return s.modelRepo.SetActive(ctx, artifact.ID)
}

func (s *TrainingService) loadRecords(ctx context.Context) ([]models.PlayerPerformance, error) {
	rows, err := s.perfRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading performance records: %w", err)
	}
	if len(rows) == 0 {
		return nil, models.ErrInsufficientData
	}

	records := make([]models.PlayerPerformance, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row)
	}
	return records, nil
}

func (s *TrainingService) ensembleConfig() ensemble.Config {
	return ensemble.Config{
		Trees:          s.cfg.Trees,
		MinSamplesLeaf: s.cfg.MinSamplesLeaf,
		MaxDepth:       s.cfg.MaxDepth,
		Seed:           s.cfg.Seed,
		Workers:        s.cfg.Workers,
	}
}
