// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction serving.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: WithComponent(baseLogger, "prediction"),
	}
}

// LogPlayerPrediction logs a served per-player prediction.
func (pl *PredictionLogger) LogPlayerPrediction(player string, class string, mean float64, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"player":     player,
		"class":      class,
		"mean":       mean,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Player prediction served")
}

// LogMatchPrediction logs a completed match-level prediction.
func (pl *PredictionLogger) LogMatchPrediction(venue string, team1Players, team2Players int, team1Probability float64) {
	pl.WithFields(logrus.Fields{
		"venue":             venue,
		"team1_players":     team1Players,
		"team2_players":     team2Players,
		"team1_probability": team1Probability,
	}).Info("Match prediction completed")
}
