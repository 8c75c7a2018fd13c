package models

// Role flag thresholds applied to career aggregates.
const (
	BatsmanAverageThreshold    = 25.0
	BowlerWicketsThreshold     = 20.0
	AllRounderAverageThreshold = 15.0
	AllRounderWicketsThreshold = 10.0
)

// FeatureVector is the standardized per (player, season) feature set fed to
// the ensemble predictors. Rolling and career aggregates are computed only
// from seasons at or before this one.
type FeatureVector struct {
	PlayerName string `json:"player_name"`
	Season     int    `json:"season"`

	// Current season stats
	MatchesPlayed  float64 `json:"matches_played"`
	RunsScored     float64 `json:"runs_scored"`
	BattingAverage float64 `json:"batting_average"`
	StrikeRate     float64 `json:"strike_rate"`
	WicketsTaken   float64 `json:"wickets_taken"`
	BowlingAverage float64 `json:"bowling_average"`
	EconomyRate    float64 `json:"economy_rate"`
	CatchesTaken   float64 `json:"catches_taken"`
	Stumpings      float64 `json:"stumpings"`

	// Trailing three-season means (fewer seasons early in a career)
	RunsRolling           float64 `json:"runs_rolling"`
	BattingAverageRolling float64 `json:"batting_average_rolling"`
	StrikeRateRolling     float64 `json:"strike_rate_rolling"`
	WicketsRolling        float64 `json:"wickets_rolling"`
	BowlingAverageRolling float64 `json:"bowling_average_rolling"`
	EconomyRateRolling    float64 `json:"economy_rate_rolling"`
	CatchesRolling        float64 `json:"catches_rolling"`
	StumpingsRolling      float64 `json:"stumpings_rolling"`

	// Career aggregates up to and including this season: running sums for
	// count stats, running means for rate stats
	CareerMatches        float64 `json:"career_matches"`
	CareerRuns           float64 `json:"career_runs"`
	CareerBattingAverage float64 `json:"career_batting_average"`
	CareerStrikeRate     float64 `json:"career_strike_rate"`
	CareerWickets        float64 `json:"career_wickets"`
	CareerBowlingAverage float64 `json:"career_bowling_average"`
	CareerEconomyRate    float64 `json:"career_economy_rate"`
	CareerCatches        float64 `json:"career_catches"`
	CareerStumpings      float64 `json:"career_stumpings"`

	// Ratio of rolling run production to the career per-season mean
	FormFactor float64 `json:"form_factor"`

	IsBatsman    bool `json:"is_batsman"`
	IsBowler     bool `json:"is_bowler"`
	IsAllRounder bool `json:"is_all_rounder"`
}

// ApplyRoleFlags derives the boolean role flags from career aggregates.
func (fv *FeatureVector) ApplyRoleFlags() {
	fv.IsBatsman = fv.CareerBattingAverage > BatsmanAverageThreshold
	fv.IsBowler = fv.CareerWickets > BowlerWicketsThreshold
	fv.IsAllRounder = fv.CareerBattingAverage > AllRounderAverageThreshold &&
		fv.CareerWickets > AllRounderWicketsThreshold
}

// TrainingLabels holds the next-season outcomes a feature vector is trained
// against.
type TrainingLabels struct {
	Runs       float64 `json:"runs"`
	Wickets    float64 `json:"wickets"`
	Dismissals float64 `json:"dismissals"`
}

// TrainingExample pairs a feature vector with the following season's
// observed outcomes for the same player. The last observed season for a
// player has no following season and therefore produces no example.
type TrainingExample struct {
	Features FeatureVector  `json:"features"`
	Labels   TrainingLabels `json:"labels"`
}
