package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// StatsAPIClient implements DataSource for the hosted cricket statistics API
type StatsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Entry
}

// statsAPISeason represents one player-season entry from the stats API
type statsAPISeason struct {
	Player         string `json:"player"`
	Season         string `json:"season"`
	Matches        string `json:"matches"`
	Runs           string `json:"runs"`
	BattingAverage string `json:"battingAverage"`
	StrikeRate     string `json:"strikeRate"`
	Wickets        string `json:"wickets"`
	BowlingAverage string `json:"bowlingAverage"`
	EconomyRate    string `json:"economyRate"`
	Catches        string `json:"catches"`
	Stumpings      string `json:"stumpings"`
}

// NewStatsAPIClient creates a new stats API client
func NewStatsAPIClient(httpClient *RateLimitedHTTPClient, apiKey string, enabled bool, logger *logrus.Logger) *StatsAPIClient {
	return &StatsAPIClient{
		httpClient: httpClient,
		baseURL:    "https://api.cricstats.io/v1",
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger.WithField("source", "stats_api"),
	}
}

// FetchPlayerSeasons retrieves stat lines within the specified season range
func (c *StatsAPIClient) FetchPlayerSeasons(ctx context.Context, startSeason, endSeason int) ([]PlayerSeasonData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("stats_api", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	endpoint := fmt.Sprintf("%s/seasons?from=%d&to=%d", c.baseURL, startSeason, endSeason)
	return c.fetchSeasons(ctx, endpoint)
}

// FetchPlayer retrieves all available seasons for one player
func (c *StatsAPIClient) FetchPlayer(ctx context.Context, playerName string) ([]PlayerSeasonData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("stats_api", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	endpoint := fmt.Sprintf("%s/players/%s/seasons", c.baseURL, url.PathEscape(playerName))
	return c.fetchSeasons(ctx, endpoint)
}

func (c *StatsAPIClient) fetchSeasons(ctx context.Context, endpoint string) ([]PlayerSeasonData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError("stats_api", ErrCodeNetworkError, "failed to create request", err)
	}

	// Add authentication header
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError("stats_api", ErrCodeNetworkError, "failed to fetch seasons", err)
	}
	defer resp.Body.Close()

	// Handle authentication errors
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError("stats_api", ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("stats_api", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError("stats_api", ErrCodeNotFound, "no data for query", nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("stats_api", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var apiSeasons []statsAPISeason
	if err := json.NewDecoder(resp.Body).Decode(&apiSeasons); err != nil {
		return nil, NewDataSourceError("stats_api", ErrCodeInvalidData, "failed to parse response", err)
	}

	now := time.Now().UTC()
	seasons := make([]PlayerSeasonData, 0, len(apiSeasons))
	for _, entry := range apiSeasons {
		if entry.Player == "" {
			c.logger.WithField("season", entry.Season).Warn("Skipping entry with empty player name")
			continue
		}
		seasons = append(seasons, PlayerSeasonData{
			PlayerName:     entry.Player,
			Season:         entry.Season,
			Matches:        entry.Matches,
			Runs:           entry.Runs,
			BattingAverage: entry.BattingAverage,
			StrikeRate:     entry.StrikeRate,
			Wickets:        entry.Wickets,
			BowlingAverage: entry.BowlingAverage,
			EconomyRate:    entry.EconomyRate,
			Catches:        entry.Catches,
			Stumpings:      entry.Stumpings,
			FetchedAt:      now,
		})
	}

	return seasons, nil
}

// Name returns the data source name
func (c *StatsAPIClient) Name() string {
	return "stats_api"
}

// IsEnabled returns whether this data source is enabled
func (c *StatsAPIClient) IsEnabled() bool {
	return c.enabled
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *StatsAPIClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}
