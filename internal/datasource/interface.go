package datasource

import (
	"context"
	"errors"
	"time"
)

// DataSource defines the interface for fetching player statistics from external providers
type DataSource interface {
	// FetchPlayerSeasons retrieves season-level stat lines within the specified season range
	FetchPlayerSeasons(ctx context.Context, startSeason, endSeason int) ([]PlayerSeasonData, error)

	// FetchPlayer retrieves all available seasons for one player
	FetchPlayer(ctx context.Context, playerName string) ([]PlayerSeasonData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// PlayerSeasonData represents one raw player-season stat line from any data source.
// Numeric fields are kept as strings; providers emit placeholders like "No stats"
// that the ingestion normalizer coerces downstream.
type PlayerSeasonData struct {
	PlayerName     string    `json:"player_name"`
	Season         string    `json:"season"`
	Matches        string    `json:"matches"`
	Runs           string    `json:"runs"`
	BattingAverage string    `json:"batting_average"`
	StrikeRate     string    `json:"strike_rate"`
	Wickets        string    `json:"wickets"`
	BowlingAverage string    `json:"bowling_average"`
	EconomyRate    string    `json:"economy_rate"`
	Catches        string    `json:"catches"`
	Stumpings      string    `json:"stumpings"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

const dataSourceDisabledMsg = "data source is disabled"

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
