package adjustment

// Role identifies which side of the game an adjustment is computed for.
type Role string

const (
	RoleBatsman Role = "batsman"
	RoleBowler  Role = "bowler"
)

// PlayerProfile carries the career baselines and bowling-style tags used by
// the contextual multipliers. It is supplied by the caller alongside the
// base prediction.
type PlayerProfile struct {
	CareerBattingAverage float64 `json:"career_batting_average"`
	CareerBowlingAverage float64 `json:"career_bowling_average"`
	SpinSpecialist       bool    `json:"spin_specialist"`
	PaceSpecialist       bool    `json:"pace_specialist"`
}

// VenueConditions flags the pitch character of a venue.
type VenueConditions struct {
	SpinFriendly bool `json:"spin_friendly"`
	PaceFriendly bool `json:"pace_friendly"`
}

// VenueHistory is a player's historical record at one venue.
type VenueHistory struct {
	Matches int     `json:"matches"`
	WinRate float64 `json:"win_rate"`
}

// HeadToHeadStats is a player's historical record against one opponent.
type HeadToHeadStats struct {
	Matches int     `json:"matches"`
	WinRate float64 `json:"win_rate"`
}

// PressureMetrics holds a player's averages in high-pressure contexts.
type PressureMetrics struct {
	KnockoutBattingAverage float64 `json:"knockout_batting_average"`
	KnockoutBowlingAverage float64 `json:"knockout_bowling_average"`
	ChaseBattingAverage    float64 `json:"chase_batting_average"`
}

// Inputs bundles the optional side-channel context for one adjustment.
// Every field may be nil; a missing input simply contributes no multiplier.
type Inputs struct {
	Profile         *PlayerProfile
	VenueConditions *VenueConditions
	VenueHistory    *VenueHistory
	HeadToHead      *HeadToHeadStats
	Pressure        *PressureMetrics
}
