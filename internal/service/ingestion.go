package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/datasource"
	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/repository"
)

// IngestionService handles the player statistics ingestion workflow
type IngestionService struct {
	sources    []datasource.DataSource
	perfRepo   repository.PerformanceRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	metrics    *IngestionMetrics
	logger     *logrus.Entry
	batchSize  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.DataSource,
	perfRepo repository.PerformanceRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	logger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		sources:    sources,
		perfRepo:   perfRepo,
		validator:  validator,
		normalizer: normalizer,
		metrics:    NewIngestionMetrics(),
		logger:     logger.WithField("component", "ingestion"),
		batchSize:  batchSize,
	}
}

// IngestHistoricalData fetches and ingests stat lines from a specific source
func (s *IngestionService) IngestHistoricalData(ctx context.Context, sourceName string, startSeason, endSeason int) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	s.logger.WithFields(logrus.Fields{
		"source":       sourceName,
		"start_season": startSeason,
		"end_season":   endSeason,
	}).Info("Starting historical data ingestion")

	source := s.findSource(sourceName)
	if source == nil {
		return nil, fmt.Errorf("data source not found: %s", sourceName)
	}

	lines, err := source.FetchPlayerSeasons(ctx, startSeason, endSeason)
	if err != nil {
		s.metrics.RecordError()
		s.logger.WithError(err).WithField("source", sourceName).Error("Failed to fetch stat lines")
		return s.metrics, fmt.Errorf("failed to fetch stat lines: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"source": sourceName,
		"lines":  len(lines),
	}).Info("Fetched stat lines")
	s.metrics.RecordTotal(len(lines))

	// Process in batches
	for i := 0; i < len(lines); i += s.batchSize {
		end := i + s.batchSize
		if end > len(lines) {
			end = len(lines)
		}

		if err := s.processBatch(ctx, lines[i:end]); err != nil {
			s.logger.WithError(err).Error("Error processing batch")
			s.metrics.RecordError()
			// Continue processing other batches
		}
	}

	s.metrics.Duration = time.Since(startTime)
	total, successful, validationErrors, errCount := s.metrics.Snapshot()
	s.logger.WithFields(logrus.Fields{
		"total":             total,
		"successful":        successful,
		"validation_errors": validationErrors,
		"errors":            errCount,
		"duration":          s.metrics.Duration.String(),
	}).Info("Historical ingestion complete")

	return s.metrics, nil
}

// IngestAllSources runs historical ingestion across every configured source.
// A failing source is logged and skipped; the run continues.
func (s *IngestionService) IngestAllSources(ctx context.Context, startSeason, endSeason int) error {
	var lastErr error
	for _, source := range s.sources {
		if !source.IsEnabled() {
			continue
		}
		if _, err := s.IngestHistoricalData(ctx, source.Name(), startSeason, endSeason); err != nil {
			s.logger.WithError(err).WithField("source", source.Name()).Warn("Source ingestion failed")
			lastErr = err
		}
	}
	return lastErr
}

// IngestPlayer fetches and ingests all seasons for one player from a source
func (s *IngestionService) IngestPlayer(ctx context.Context, sourceName, playerName string) error {
	source := s.findSource(sourceName)
	if source == nil {
		return fmt.Errorf("data source not found: %s", sourceName)
	}

	lines, err := source.FetchPlayer(ctx, playerName)
	if err != nil {
		return fmt.Errorf("failed to fetch player seasons: %w", err)
	}

	s.metrics.RecordTotal(len(lines))
	return s.processBatch(ctx, lines)
}

// processBatch normalizes, validates and persists a batch of stat lines
func (s *IngestionService) processBatch(ctx context.Context, lines []datasource.PlayerSeasonData) error {
	perfs := make([]*models.PlayerPerformance, 0, len(lines))

	for _, line := range lines {
		perf, err := s.normalizer.Normalize(line)
		if err != nil {
			s.metrics.RecordValidationError()
			metrics.RecordRejectedRecords(1)
			s.logger.WithError(err).WithField("player", line.PlayerName).Debug("Dropping unnormalizable stat line")
			continue
		}

		if validationErrors := s.validator.ValidatePerformance(perf); len(validationErrors) > 0 {
			s.metrics.RecordValidationError()
			metrics.RecordRejectedRecords(1)
			s.logger.WithFields(logrus.Fields{
				"player": perf.PlayerName,
				"season": perf.Season,
				"errors": validationErrors,
			}).Warn("Record failed validation")
			continue
		}

		perfs = append(perfs, perf)
	}

	if len(perfs) == 0 {
		return nil
	}

	if err := s.perfRepo.UpsertBatch(ctx, perfs); err != nil {
		return fmt.Errorf("failed to persist batch: %w", err)
	}

	s.metrics.RecordSuccess(len(perfs))
	metrics.RecordIngestedRecords(len(perfs))
	return nil
}

func (s *IngestionService) findSource(name string) datasource.DataSource {
	for _, src := range s.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}
