package models

// MatchContext describes the scheduled match a prediction is being adjusted
// for. Opponent may be empty when the opposition is not yet known; the
// head-to-head adjustment is skipped in that case.
type MatchContext struct {
	Venue      string `json:"venue" validate:"required"`
	Opponent   string `json:"opponent,omitempty"`
	IsKnockout bool   `json:"is_knockout"`
	IsChase    bool   `json:"is_chase"`
}
