// Package adjustment converts a raw form-based prediction into a win
// probability conditioned on venue, opponent history, and match pressure.
package adjustment

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// Multiplier bounds and constants for the contextual factors.
const (
	venueFitMultiplier = 1.2

	venueHistoryMin = 0.5
	venueHistoryMax = 1.5

	headToHeadMin = 0.7
	headToHeadMax = 1.3

	knockoutMin = 0.6
	knockoutMax = 1.4

	chaseMin = 0.7
	chaseMax = 1.3

	neutralProbability = 0.5
)

// Engine applies multiplicative contextual factors to a base prediction.
// Adjustment never fails: whatever goes wrong, the caller gets back a
// usable probability, with the fallback and its cause recorded on the
// result instead of an error.
type Engine struct {
	logger *logrus.Entry
}

// NewEngine creates an adjustment engine.
func NewEngine(baseLogger *logrus.Logger) *Engine {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Engine{logger: baseLogger.WithField("component", "adjustment")}
}

// Adjust maps the base prediction to [0,1] via the player's form-ratio and
// compounds the venue, head-to-head, and pressure multipliers onto it.
// Missing optional inputs contribute a multiplier of 1.0. Any internal
// failure yields the neutral 0.5 with a diagnostic, never an error.
func (e *Engine) Adjust(base models.PredictionResult, role Role, matchCtx models.MatchContext, in Inputs) (result models.AdjustedProbability) {
	defer func() {
		if r := recover(); r != nil {
			result = e.neutral(base.PlayerName, fmt.Sprintf("adjustment panic: %v", r))
		}
	}()

	prob, diag := e.baseProbability(base, role, in.Profile)
	if diag != "" {
		return e.neutral(base.PlayerName, diag)
	}

	prob *= e.venueFitFactor(role, in)
	prob *= e.venueHistoryFactor(in.VenueHistory)
	prob *= e.headToHeadFactor(matchCtx, in.HeadToHead)
	prob *= e.pressureFactor(role, matchCtx, in)

	if math.IsNaN(prob) || math.IsInf(prob, 0) {
		return e.neutral(base.PlayerName, "non-finite probability after adjustment")
	}

	return models.AdjustedProbability{
		PlayerName:  base.PlayerName,
		Probability: clamp(prob, 0, 1),
	}
}

// baseProbability derives the dimensionless form-ratio: the predicted stat
// divided by the player's own career average for that stat.
func (e *Engine) baseProbability(base models.PredictionResult, role Role, profile *PlayerProfile) (float64, string) {
	if profile == nil {
		return 0, "missing player profile"
	}

	careerAverage := profile.CareerBattingAverage
	if role == RoleBowler {
		careerAverage = profile.CareerBowlingAverage
	}
	if careerAverage <= 0 {
		return 0, fmt.Sprintf("no career average for role %s", role)
	}
	if math.IsNaN(base.Mean) || math.IsInf(base.Mean, 0) {
		return 0, "non-finite base prediction"
	}

	return base.Mean / careerAverage, ""
}

// venueFitFactor compounds a 1.2 multiplier for each bowling-style match
// between the venue and the player. A venue that favors both styles for a
// player tagged with both yields 1.44.
func (e *Engine) venueFitFactor(role Role, in Inputs) float64 {
	if in.VenueConditions == nil || in.Profile == nil {
		return 1.0
	}

	factor := 1.0
	if in.VenueConditions.SpinFriendly && in.Profile.SpinSpecialist {
		factor *= venueFitMultiplier
	}
	if in.VenueConditions.PaceFriendly && in.Profile.PaceSpecialist {
		factor *= venueFitMultiplier
	}
	return factor
}

func (e *Engine) venueHistoryFactor(history *VenueHistory) float64 {
	if history == nil || history.Matches == 0 {
		return 1.0
	}
	return clamp(history.WinRate, venueHistoryMin, venueHistoryMax)
}

func (e *Engine) headToHeadFactor(matchCtx models.MatchContext, h2h *HeadToHeadStats) float64 {
	if matchCtx.Opponent == "" || h2h == nil || h2h.Matches == 0 {
		return 1.0
	}
	return clamp(h2h.WinRate, headToHeadMin, headToHeadMax)
}

// pressureFactor applies the knockout and chase ratios. The two are
// independent; both apply when both flags are set.
func (e *Engine) pressureFactor(role Role, matchCtx models.MatchContext, in Inputs) float64 {
	if in.Pressure == nil || in.Profile == nil {
		return 1.0
	}

	factor := 1.0
	if matchCtx.IsKnockout {
		contextAverage := in.Pressure.KnockoutBattingAverage
		overallAverage := in.Profile.CareerBattingAverage
		if role == RoleBowler {
			contextAverage = in.Pressure.KnockoutBowlingAverage
			overallAverage = in.Profile.CareerBowlingAverage
		}
		factor *= clamp(contextAverage/math.Max(1, overallAverage), knockoutMin, knockoutMax)
	}
	if matchCtx.IsChase && role == RoleBatsman {
		factor *= clamp(in.Pressure.ChaseBattingAverage/math.Max(1, in.Profile.CareerBattingAverage), chaseMin, chaseMax)
	}
	return factor
}

func (e *Engine) neutral(playerName, diagnostic string) models.AdjustedProbability {
	e.logger.WithFields(logrus.Fields{
		"player": playerName,
		"cause":  diagnostic,
	}).Warn("Adjustment fell back to neutral probability")
	metrics.RecordAdjustmentFallback()

	return models.AdjustedProbability{
		PlayerName:  playerName,
		Probability: neutralProbability,
		Neutral:     true,
		Diagnostic:  diagnostic,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
