package features

import "github.com/yourusername/wicket-predictor/internal/models"

// careerState carries a player's running aggregates while their seasons are
// replayed in order. Count stats accumulate as sums, rate stats as means.
type careerState struct {
	periods int

	matches   float64
	runs      float64
	wickets   float64
	catches   float64
	stumpings float64

	battingAverageSum float64
	strikeRateSum     float64
	bowlingAverageSum float64
	economyRateSum    float64

	rolling rollingState
}

type rollingState struct {
	runs           window
	battingAverage window
	strikeRate     window
	wickets        window
	bowlingAverage window
	economyRate    window
	catches        window
	stumpings      window
}

func newCareerState() *careerState {
	return &careerState{}
}

func (c *careerState) observe(rec models.PlayerPerformance) {
	c.periods++

	c.matches += rec.MatchesPlayed
	c.runs += rec.RunsScored
	c.wickets += rec.WicketsTaken
	c.catches += rec.CatchesTaken
	c.stumpings += rec.Stumpings

	c.battingAverageSum += rec.BattingAverage
	c.strikeRateSum += rec.StrikeRate
	c.bowlingAverageSum += rec.BowlingAverage
	c.economyRateSum += rec.EconomyRate

	c.rolling.runs.push(rec.RunsScored)
	c.rolling.battingAverage.push(rec.BattingAverage)
	c.rolling.strikeRate.push(rec.StrikeRate)
	c.rolling.wickets.push(rec.WicketsTaken)
	c.rolling.bowlingAverage.push(rec.BowlingAverage)
	c.rolling.economyRate.push(rec.EconomyRate)
	c.rolling.catches.push(rec.CatchesTaken)
	c.rolling.stumpings.push(rec.Stumpings)
}

func (c *careerState) battingAverageMean() float64 { return c.mean(c.battingAverageSum) }
func (c *careerState) strikeRateMean() float64     { return c.mean(c.strikeRateSum) }
func (c *careerState) bowlingAverageMean() float64 { return c.mean(c.bowlingAverageSum) }
func (c *careerState) economyRateMean() float64    { return c.mean(c.economyRateSum) }

func (c *careerState) mean(sum float64) float64 {
	if c.periods == 0 {
		return 0
	}
	return sum / float64(c.periods)
}

// window is a fixed-capacity trailing window over the last RollingWindow
// observations.
type window struct {
	values []float64
}

func (w *window) push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > RollingWindow {
		w.values = w.values[len(w.values)-RollingWindow:]
	}
}

func (w *window) mean() float64 {
	if len(w.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values))
}
