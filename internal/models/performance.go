package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PlayerPerformance represents one player's stat line for a single season.
// Records are immutable once ingested; all derived features are recomputed
// from them rather than edited in place.
type PlayerPerformance struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PlayerName     string    `db:"player_name" json:"player_name" validate:"required"`
	Season         int       `db:"season" json:"season" validate:"required,gt=1800"`
	MatchesPlayed  float64   `db:"matches_played" json:"matches_played"`
	RunsScored     float64   `db:"runs_scored" json:"runs_scored"`
	BattingAverage float64   `db:"batting_average" json:"batting_average"`
	StrikeRate     float64   `db:"strike_rate" json:"strike_rate"`
	WicketsTaken   float64   `db:"wickets_taken" json:"wickets_taken"`
	BowlingAverage float64   `db:"bowling_average" json:"bowling_average"`
	EconomyRate    float64   `db:"economy_rate" json:"economy_rate"`
	CatchesTaken   float64   `db:"catches_taken" json:"catches_taken"`
	Stumpings      float64   `db:"stumpings" json:"stumpings"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Sanitized returns a copy with every non-finite or negative stat cell
// replaced by zero. Bad individual cells never abort processing; the
// zero-fill happens once here, at the record boundary.
func (p PlayerPerformance) Sanitized() PlayerPerformance {
	p.MatchesPlayed = coerceStat(p.MatchesPlayed)
	p.RunsScored = coerceStat(p.RunsScored)
	p.BattingAverage = coerceStat(p.BattingAverage)
	p.StrikeRate = coerceStat(p.StrikeRate)
	p.WicketsTaken = coerceStat(p.WicketsTaken)
	p.BowlingAverage = coerceStat(p.BowlingAverage)
	p.EconomyRate = coerceStat(p.EconomyRate)
	p.CatchesTaken = coerceStat(p.CatchesTaken)
	p.Stumpings = coerceStat(p.Stumpings)
	return p
}

func coerceStat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
