// Package match combines per-player predictions for two rosters into
// team-level strengths and a normalized win probability.
package match

// Strength weighting: volume stats (runs, wickets) dominate, rate stats
// (strike rate, economy) temper them.
const (
	volumeWeight = 0.7
	rateWeight   = 0.3
)

// PlayerStrength is one player's contribution to team strength.
type PlayerStrength struct {
	PlayerName string  `json:"player_name"`
	Volume     float64 `json:"volume"`
	Rate       float64 `json:"rate"`
}

// Contribution is the weighted strength of a single player.
func (p PlayerStrength) Contribution() float64 {
	return volumeWeight*p.Volume + rateWeight*p.Rate
}

// Outcome is the match-level result: two probabilities summing to 1.
type Outcome struct {
	Team1Strength    float64 `json:"team1_strength"`
	Team2Strength    float64 `json:"team2_strength"`
	Team1Probability float64 `json:"team1_probability"`
	Team2Probability float64 `json:"team2_probability"`
}

// TeamStrength sums the weighted contributions across a roster.
func TeamStrength(players []PlayerStrength) float64 {
	total := 0.0
	for _, p := range players {
		total += p.Contribution()
	}
	return total
}

// Aggregate normalizes the two team strengths into win probabilities. When
// neither team has any measurable strength the match is a coin flip.
func Aggregate(team1, team2 []PlayerStrength) Outcome {
	s1 := TeamStrength(team1)
	s2 := TeamStrength(team2)

	outcome := Outcome{Team1Strength: s1, Team2Strength: s2}
	total := s1 + s2
	if total == 0 {
		outcome.Team1Probability = 0.5
		outcome.Team2Probability = 0.5
		return outcome
	}

	outcome.Team1Probability = s1 / total
	outcome.Team2Probability = s2 / total
	return outcome
}
