package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/models"
)

const (
	minValidSeason = 1870
	maxValidSeason = 2100
)

// DataValidator validates normalized performance records before persistence
type DataValidator struct {
	logger *logrus.Entry
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{
		logger: logger.WithField("component", "validator"),
	}
}

// ValidatePerformance validates one record for required fields and constraints
func (v *DataValidator) ValidatePerformance(perf *models.PlayerPerformance) []string {
	var errors []string

	if perf.PlayerName == "" {
		errors = append(errors, "player name is required")
	}

	if len(perf.PlayerName) > 200 {
		errors = append(errors, "player name is unreasonably long")
	}

	if perf.Season < minValidSeason || perf.Season > maxValidSeason {
		errors = append(errors, fmt.Sprintf("season out of range (%d-%d), got %d", minValidSeason, maxValidSeason, perf.Season))
	}

	// After Sanitized() all stats are finite and non-negative, so the
	// remaining checks are cross-stat plausibility
	if perf.MatchesPlayed == 0 && perf.RunsScored > 0 {
		errors = append(errors, "runs recorded without any matches played")
	}

	if perf.MatchesPlayed == 0 && perf.WicketsTaken > 0 {
		errors = append(errors, "wickets recorded without any matches played")
	}

	if perf.MatchesPlayed > 200 {
		errors = append(errors, fmt.Sprintf("matches played %v exceeds plausible season maximum", perf.MatchesPlayed))
	}

	return errors
}

// IsValidSeason reports whether a season year is in the accepted range
func (v *DataValidator) IsValidSeason(season int) bool {
	return season >= minValidSeason && season <= maxValidSeason
}
