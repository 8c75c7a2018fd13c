package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/wicket-predictor/internal/adjustment"
	"github.com/yourusername/wicket-predictor/internal/ensemble"
	"github.com/yourusername/wicket-predictor/internal/features"
	"github.com/yourusername/wicket-predictor/internal/logger"
	"github.com/yourusername/wicket-predictor/internal/match"
	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/predcache"
	"github.com/yourusername/wicket-predictor/internal/repository"
)

// matchPredictionWorkers bounds concurrent per-player predictions when
// resolving a full match
const matchPredictionWorkers = 8

// PredictionService serves per-player and match-level predictions from the
// published ensembles.
type PredictionService struct {
	manager    *ensemble.Manager
	builder    *features.Builder
	perfRepo   repository.PerformanceRepository
	predRepo   repository.PredictionRepository
	cache      *predcache.PredictionCache
	adjuster   *adjustment.Engine
	log        *logger.PredictionLogger
	baseLogger *logrus.Logger
}

// NewPredictionService creates a new prediction service. predRepo and cache
// are optional; pass nil to skip the audit trail or caching.
func NewPredictionService(
	manager *ensemble.Manager,
	builder *features.Builder,
	perfRepo repository.PerformanceRepository,
	predRepo repository.PredictionRepository,
	cache *predcache.PredictionCache,
	baseLogger *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		manager:    manager,
		builder:    builder,
		perfRepo:   perfRepo,
		predRepo:   predRepo,
		cache:      cache,
		adjuster:   adjustment.NewEngine(baseLogger),
		log:        logger.NewPredictionLogger(baseLogger),
		baseLogger: baseLogger,
	}
}

// PredictPlayer predicts one stat class for one player
func (s *PredictionService) PredictPlayer(ctx context.Context, playerName string, class models.StatClass) (*models.PredictionResult, error) {
	result, _, err := s.predictWithVector(ctx, playerName, class)
	return result, err
}

// predictWithVector predicts and also returns the feature vector the
// prediction was made from, for callers that need career context.
func (s *PredictionService) predictWithVector(ctx context.Context, playerName string, class models.StatClass) (*models.PredictionResult, *models.FeatureVector, error) {
	startTime := time.Now()

	forest, err := s.manager.Forest(class)
	if err != nil {
		return nil, nil, err
	}

	key := predcache.CacheKey{
		PlayerName:   playerName,
		Class:        class,
		ModelVersion: forest.Version(),
	}

	if s.cache != nil {
		if cached := s.cache.Get(ctx, key); cached != nil {
			vector, err := s.latestVector(ctx, playerName)
			if err != nil {
				return nil, nil, err
			}
			s.log.LogPlayerPrediction(playerName, string(class), cached.Mean, true, msSince(startTime))
			return cached, vector, nil
		}
	}

	vector, err := s.latestVector(ctx, playerName)
	if err != nil {
		return nil, nil, err
	}

	result, err := forest.PredictVector(*vector)
	if err != nil {
		return nil, nil, fmt.Errorf("predicting %s for %s: %w", class, playerName, err)
	}
	result.PlayerName = playerName

	if s.predRepo != nil {
		if err := s.predRepo.Insert(ctx, &result, forest.Version()); err != nil {
			s.baseLogger.WithError(err).WithField("player", playerName).Warn("Failed to record prediction audit entry")
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, &result)
	}

	latency := time.Since(startTime).Seconds()
	metrics.RecordPrediction(string(class), latency)
	s.log.LogPlayerPrediction(playerName, string(class), result.Mean, false, latency*1000)

	return &result, vector, nil
}

// PredictPlayerAdjusted predicts a player's contribution and applies the
// contextual adjustment factors for the given match
func (s *PredictionService) PredictPlayerAdjusted(
	ctx context.Context,
	playerName string,
	role adjustment.Role,
	matchCtx models.MatchContext,
	inputs adjustment.Inputs,
) (models.AdjustedProbability, error) {
	class := models.ClassBatting
	if role == adjustment.RoleBowler {
		class = models.ClassBowling
	}

	base, err := s.PredictPlayer(ctx, playerName, class)
	if err != nil {
		return models.AdjustedProbability{}, err
	}

	return s.adjuster.Adjust(*base, role, matchCtx, inputs), nil
}

// PredictMatch predicts the win probability split between two teams.
// Unknown players contribute zero strength rather than failing the match.
func (s *PredictionService) PredictMatch(ctx context.Context, matchCtx models.MatchContext, team1, team2 []string) (match.Outcome, error) {
	team1Strengths, err := s.teamStrengths(ctx, team1)
	if err != nil {
		return match.Outcome{}, fmt.Errorf("predicting team 1: %w", err)
	}

	team2Strengths, err := s.teamStrengths(ctx, team2)
	if err != nil {
		return match.Outcome{}, fmt.Errorf("predicting team 2: %w", err)
	}

	outcome := match.Aggregate(team1Strengths, team2Strengths)
	s.log.LogMatchPrediction(matchCtx.Venue, len(team1), len(team2), outcome.Team1Probability)

	return outcome, nil
}

// teamStrengths resolves per-player strengths concurrently
func (s *PredictionService) teamStrengths(ctx context.Context, players []string) ([]match.PlayerStrength, error) {
	strengths := make([]match.PlayerStrength, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(matchPredictionWorkers)

	for i, playerName := range players {
		i, playerName := i, playerName
		g.Go(func() error {
			result, vector, err := s.predictWithVector(gctx, playerName, models.ClassBatting)
			if err != nil {
				// Players with no history contribute nothing
				s.baseLogger.WithError(err).WithField("player", playerName).
					Warn("Skipping player in match aggregation")
				strengths[i] = match.PlayerStrength{PlayerName: playerName}
				return nil
			}

			strengths[i] = match.PlayerStrength{
				PlayerName: playerName,
				Volume:     result.Mean,
				Rate:       vector.CareerStrikeRate,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return strengths, nil
}

// latestVector builds the most recent feature vector for one player
func (s *PredictionService) latestVector(ctx context.Context, playerName string) (*models.FeatureVector, error) {
	rows, err := s.perfRepo.GetByPlayer(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("loading records for %s: %w", playerName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no records for player %s", models.ErrInsufficientData, playerName)
	}

	records := make([]models.PlayerPerformance, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row)
	}

	vectors := s.builder.BuildFeatures(records)
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no feature vectors for player %s", models.ErrInsufficientData, playerName)
	}

	// Seasons are ordered ascending; the last vector is the current state
	latest := vectors[len(vectors)-1]
	return &latest, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
