// Package features turns raw per-season performance records into the
// standardized feature vectors the ensemble predictors consume.
package features

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// RollingWindow is the number of trailing seasons the rolling means cover.
const RollingWindow = 3

// Builder computes per (player, season) feature vectors. It is stateless
// between calls; every invocation recomputes aggregates from the records.
type Builder struct {
	logger *logrus.Logger
}

// NewBuilder creates a feature builder.
func NewBuilder(logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Builder{logger: logger}
}

// BuildFeatures produces one feature vector per (player, season), grouped by
// player with seasons ascending. Aggregates only ever look backwards: the
// vector for season N uses seasons <= N.
func (b *Builder) BuildFeatures(records []models.PlayerPerformance) []models.FeatureVector {
	grouped := groupBySeason(records)

	vectors := make([]models.FeatureVector, 0, len(records))
	for _, player := range sortedPlayers(grouped) {
		vectors = append(vectors, b.buildPlayerFeatures(grouped[player])...)
	}

	b.logger.WithFields(logrus.Fields{
		"records": len(records),
		"players": len(grouped),
		"vectors": len(vectors),
	}).Debug("Feature build completed")

	return vectors
}

// BuildTrainingExamples pairs each feature vector with the next season's
// observed outcomes. A player's final season yields no example.
func (b *Builder) BuildTrainingExamples(records []models.PlayerPerformance) []models.TrainingExample {
	grouped := groupBySeason(records)

	var examples []models.TrainingExample
	for _, player := range sortedPlayers(grouped) {
		seasons := grouped[player]
		vectors := b.buildPlayerFeatures(seasons)
		for i := 0; i+1 < len(seasons); i++ {
			next := seasons[i+1]
			examples = append(examples, models.TrainingExample{
				Features: vectors[i],
				Labels: models.TrainingLabels{
					Runs:       next.RunsScored,
					Wickets:    next.WicketsTaken,
					Dismissals: next.CatchesTaken + next.Stumpings,
				},
			})
		}
	}
	return examples
}

// buildPlayerFeatures walks one player's seasons in ascending order,
// carrying the running career state forward.
func (b *Builder) buildPlayerFeatures(seasons []models.PlayerPerformance) []models.FeatureVector {
	career := newCareerState()
	vectors := make([]models.FeatureVector, 0, len(seasons))

	for _, raw := range seasons {
		rec := raw.Sanitized()
		career.observe(rec)

		fv := models.FeatureVector{
			PlayerName: rec.PlayerName,
			Season:     rec.Season,

			MatchesPlayed:  rec.MatchesPlayed,
			RunsScored:     rec.RunsScored,
			BattingAverage: rec.BattingAverage,
			StrikeRate:     rec.StrikeRate,
			WicketsTaken:   rec.WicketsTaken,
			BowlingAverage: rec.BowlingAverage,
			EconomyRate:    rec.EconomyRate,
			CatchesTaken:   rec.CatchesTaken,
			Stumpings:      rec.Stumpings,

			RunsRolling:           career.rolling.runs.mean(),
			BattingAverageRolling: career.rolling.battingAverage.mean(),
			StrikeRateRolling:     career.rolling.strikeRate.mean(),
			WicketsRolling:        career.rolling.wickets.mean(),
			BowlingAverageRolling: career.rolling.bowlingAverage.mean(),
			EconomyRateRolling:    career.rolling.economyRate.mean(),
			CatchesRolling:        career.rolling.catches.mean(),
			StumpingsRolling:      career.rolling.stumpings.mean(),

			CareerMatches:        career.matches,
			CareerRuns:           career.runs,
			CareerBattingAverage: career.battingAverageMean(),
			CareerStrikeRate:     career.strikeRateMean(),
			CareerWickets:        career.wickets,
			CareerBowlingAverage: career.bowlingAverageMean(),
			CareerEconomyRate:    career.economyRateMean(),
			CareerCatches:        career.catches,
			CareerStumpings:      career.stumpings,
		}

		fv.FormFactor = formFactor(fv.RunsRolling, career.runs, career.periods)
		fv.ApplyRoleFlags()
		vectors = append(vectors, fv)
	}

	return vectors
}

// formFactor relates recent run production to the career per-season mean.
// A player with no career runs yet gets the neutral 1.0.
func formFactor(rollingRuns, careerRuns float64, periods int) float64 {
	if periods == 0 || careerRuns <= 0 {
		return 1.0
	}
	return rollingRuns / (careerRuns / float64(periods))
}

func groupBySeason(records []models.PlayerPerformance) map[string][]models.PlayerPerformance {
	grouped := make(map[string][]models.PlayerPerformance)
	for _, rec := range records {
		grouped[rec.PlayerName] = append(grouped[rec.PlayerName], rec)
	}
	for name := range grouped {
		seasons := grouped[name]
		sort.SliceStable(seasons, func(i, j int) bool {
			return seasons[i].Season < seasons[j].Season
		})
	}
	return grouped
}

func sortedPlayers(grouped map[string][]models.PlayerPerformance) []string {
	players := make([]string, 0, len(grouped))
	for name := range grouped {
		players = append(players, name)
	}
	sort.Strings(players)
	return players
}
