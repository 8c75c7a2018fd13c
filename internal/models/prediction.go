package models

import (
	"time"
)

// StatClass identifies which output the ensemble predicts.
type StatClass string

const (
	ClassBatting  StatClass = "batting"
	ClassBowling  StatClass = "bowling"
	ClassFielding StatClass = "fielding"
)

// AllClasses lists every stat class in training order.
var AllClasses = []StatClass{ClassBatting, ClassBowling, ClassFielding}

// Valid reports whether the class is one of the three known stat classes.
func (c StatClass) Valid() bool {
	switch c {
	case ClassBatting, ClassBowling, ClassFielding:
		return true
	}
	return false
}

// PredictionResult is the ensemble output for one (player, stat class).
//
// Lower and Upper are the 2.5th and 97.5th percentiles of the individual
// tree predictions. The interval measures how much the trees disagree with
// each other; it is not a calibrated statistical confidence interval.
type PredictionResult struct {
	PlayerName  string    `json:"player_name"`
	Class       StatClass `json:"class"`
	Mean        float64   `json:"mean"`
	Lower       float64   `json:"lower"`
	Upper       float64   `json:"upper"`
	PredictedAt time.Time `json:"predicted_at"`
}

// AdjustedProbability is a base prediction mapped to [0,1] and scaled by
// contextual multipliers. Neutral marks the 0.5 fallback taken when the
// adjustment computation failed; Diagnostic records why.
type AdjustedProbability struct {
	PlayerName  string  `json:"player_name"`
	Probability float64 `json:"probability"`
	Neutral     bool    `json:"neutral,omitempty"`
	Diagnostic  string  `json:"diagnostic,omitempty"`
}
