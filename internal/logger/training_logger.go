// Package logger provides training-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// TrainingLogger provides dedicated logging for model training runs.
type TrainingLogger struct {
	*logrus.Entry
}

// NewTrainingLogger creates a new training logger.
func NewTrainingLogger(baseLogger *logrus.Logger) *TrainingLogger {
	return &TrainingLogger{
		Entry: WithComponent(baseLogger, "training"),
	}
}

// LogTrainingStarted logs the start of a training run for one stat class.
func (tl *TrainingLogger) LogTrainingStarted(class string, examples int, trees int) {
	tl.WithFields(logrus.Fields{
		"class":    class,
		"examples": examples,
		"trees":    trees,
	}).Info("Model training started")
}

// LogTrainingCompleted logs a successful training run with its holdout metrics.
func (tl *TrainingLogger) LogTrainingCompleted(class string, durationSeconds float64, metrics map[string]float64, artifactPath string) {
	tl.WithFields(logrus.Fields{
		"class":             class,
		"training_duration": durationSeconds,
		"metrics":           metrics,
		"artifact_path":     artifactPath,
	}).Info("Model training completed")
}

// LogTrainingFailed logs a failed training run.
func (tl *TrainingLogger) LogTrainingFailed(class string, err error) {
	tl.WithFields(logrus.Fields{
		"class": class,
		"error": err.Error(),
	}).Error("Model training failed")
}

// LogModelPublished logs the atomic publish of a freshly trained model.
func (tl *TrainingLogger) LogModelPublished(class string, version string, samples int) {
	tl.WithFields(logrus.Fields{
		"class":   class,
		"version": version,
		"samples": samples,
	}).Info("Model published")
}
