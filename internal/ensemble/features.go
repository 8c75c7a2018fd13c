package ensemble

import (
	"math"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// Per-class feature schemas. Batting and bowling use disjoint stat columns
// but share the role flags; fielding is driven purely by fielding counts.
var (
	battingFeatures = []string{
		"batting_average", "strike_rate", "runs_scored",
		"batting_average_rolling", "strike_rate_rolling", "runs_rolling",
		"career_batting_average", "career_strike_rate", "career_runs",
		"career_matches", "form_factor",
		"is_batsman", "is_all_rounder",
	}

	bowlingFeatures = []string{
		"bowling_average", "economy_rate", "wickets_taken",
		"bowling_average_rolling", "economy_rate_rolling", "wickets_rolling",
		"career_bowling_average", "career_economy_rate", "career_wickets",
		"is_bowler", "is_all_rounder",
	}

	fieldingFeatures = []string{
		"catches_taken", "catches_rolling", "stumpings_rolling",
		"career_catches", "career_stumpings",
	}
)

// FeatureNames returns the ordered feature schema for a stat class.
func FeatureNames(class models.StatClass) []string {
	switch class {
	case models.ClassBatting:
		return battingFeatures
	case models.ClassBowling:
		return bowlingFeatures
	case models.ClassFielding:
		return fieldingFeatures
	}
	return nil
}

// ExtractFeatures maps a feature vector onto a class's numeric schema.
// Non-finite values become 0, mirroring the feature builder's zero-fill.
func ExtractFeatures(class models.StatClass, fv models.FeatureVector) []float64 {
	names := FeatureNames(class)
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = sanitize(featureValue(fv, name))
	}
	return out
}

func featureValue(fv models.FeatureVector, name string) float64 {
	switch name {
	case "matches_played":
		return fv.MatchesPlayed
	case "runs_scored":
		return fv.RunsScored
	case "batting_average":
		return fv.BattingAverage
	case "strike_rate":
		return fv.StrikeRate
	case "wickets_taken":
		return fv.WicketsTaken
	case "bowling_average":
		return fv.BowlingAverage
	case "economy_rate":
		return fv.EconomyRate
	case "catches_taken":
		return fv.CatchesTaken
	case "stumpings":
		return fv.Stumpings
	case "runs_rolling":
		return fv.RunsRolling
	case "batting_average_rolling":
		return fv.BattingAverageRolling
	case "strike_rate_rolling":
		return fv.StrikeRateRolling
	case "wickets_rolling":
		return fv.WicketsRolling
	case "bowling_average_rolling":
		return fv.BowlingAverageRolling
	case "economy_rate_rolling":
		return fv.EconomyRateRolling
	case "catches_rolling":
		return fv.CatchesRolling
	case "stumpings_rolling":
		return fv.StumpingsRolling
	case "career_matches":
		return fv.CareerMatches
	case "career_runs":
		return fv.CareerRuns
	case "career_batting_average":
		return fv.CareerBattingAverage
	case "career_strike_rate":
		return fv.CareerStrikeRate
	case "career_wickets":
		return fv.CareerWickets
	case "career_bowling_average":
		return fv.CareerBowlingAverage
	case "career_economy_rate":
		return fv.CareerEconomyRate
	case "career_catches":
		return fv.CareerCatches
	case "career_stumpings":
		return fv.CareerStumpings
	case "form_factor":
		return fv.FormFactor
	case "is_batsman":
		return boolFeature(fv.IsBatsman)
	case "is_bowler":
		return boolFeature(fv.IsBowler)
	case "is_all_rounder":
		return boolFeature(fv.IsAllRounder)
	}
	// Unknown columns read as 0 rather than failing
	return 0
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// labelFor selects the training label for a class from an example.
func labelFor(class models.StatClass, ex models.TrainingExample) float64 {
	switch class {
	case models.ClassBatting:
		return ex.Labels.Runs
	case models.ClassBowling:
		return ex.Labels.Wickets
	case models.ClassFielding:
		return ex.Labels.Dismissals
	}
	return 0
}
