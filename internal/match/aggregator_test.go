package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContributionWeighting(t *testing.T) {
	p := PlayerStrength{PlayerName: "V Kohli", Volume: 100, Rate: 130}
	assert.InDelta(t, 0.7*100+0.3*130, p.Contribution(), 1e-9)
}

func TestTeamStrengthSumsContributions(t *testing.T) {
	players := []PlayerStrength{
		{Volume: 50, Rate: 120},
		{Volume: 30, Rate: 90},
		{}, // player with no history contributes nothing
	}
	expected := (0.7*50 + 0.3*120) + (0.7*30 + 0.3*90)
	assert.InDelta(t, expected, TeamStrength(players), 1e-9)
}

func TestAggregateNormalizesProbabilities(t *testing.T) {
	team1 := []PlayerStrength{{Volume: 60, Rate: 100}, {Volume: 40, Rate: 80}}
	team2 := []PlayerStrength{{Volume: 30, Rate: 70}}

	outcome := Aggregate(team1, team2)

	assert.InDelta(t, 1.0, outcome.Team1Probability+outcome.Team2Probability, 1e-9)
	assert.Greater(t, outcome.Team1Probability, outcome.Team2Probability)
	assert.InDelta(t, outcome.Team1Strength/(outcome.Team1Strength+outcome.Team2Strength),
		outcome.Team1Probability, 1e-9)
}

func TestAggregateZeroStrengthCoinFlip(t *testing.T) {
	outcome := Aggregate(nil, nil)

	assert.InDelta(t, 0.5, outcome.Team1Probability, 1e-9)
	assert.InDelta(t, 0.5, outcome.Team2Probability, 1e-9)
	assert.Zero(t, outcome.Team1Strength)
	assert.Zero(t, outcome.Team2Strength)
}

func TestAggregateOneSidedMatch(t *testing.T) {
	team1 := []PlayerStrength{{Volume: 100, Rate: 120}}

	outcome := Aggregate(team1, nil)

	assert.InDelta(t, 1.0, outcome.Team1Probability, 1e-9)
	assert.Zero(t, outcome.Team2Probability)
}
