package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

const statsAPIResponse = `[
	{
		"player": "V Kohli",
		"season": "2023",
		"matches": "14",
		"runs": "639",
		"battingAverage": "53.25",
		"strikeRate": "139.2",
		"wickets": "0",
		"bowlingAverage": "No stats",
		"economyRate": "No stats",
		"catches": "6",
		"stumpings": "0"
	},
	{
		"player": "",
		"season": "2023",
		"matches": "2",
		"runs": "10"
	}
]`

func TestStatsAPIFetchPlayerSeasons(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(statsAPIResponse))
	}))
	defer server.Close()

	client := NewStatsAPIClient(testHTTPClient(), "test-key", true, testLogger())
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seasons, err := client.FetchPlayerSeasons(ctx, 2020, 2024)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Entry with empty player name is dropped
	if len(seasons) != 1 {
		t.Fatalf("expected 1 season, got %d", len(seasons))
	}

	if seasons[0].PlayerName != "V Kohli" {
		t.Errorf("expected player 'V Kohli', got '%s'", seasons[0].PlayerName)
	}

	// Placeholder strings pass through untouched for the normalizer
	if seasons[0].BowlingAverage != "No stats" {
		t.Errorf("expected raw 'No stats' placeholder, got '%s'", seasons[0].BowlingAverage)
	}
}

func TestStatsAPIAuthenticationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewStatsAPIClient(testHTTPClient(), "bad-key", true, testLogger())
	client.SetBaseURL(server.URL)

	_, err := client.FetchPlayerSeasons(context.Background(), 2020, 2024)
	if err == nil {
		t.Fatal("expected authentication error")
	}

	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected code %s, got %s", ErrCodeAuthenticationFailed, dsErr.Code)
	}
}

func TestStatsAPIDisabled(t *testing.T) {
	client := NewStatsAPIClient(testHTTPClient(), "test-key", false, testLogger())

	_, err := client.FetchPlayerSeasons(context.Background(), 2020, 2024)
	if err == nil {
		t.Fatal("expected error from disabled source")
	}
}

func writeTestCSV(t *testing.T) string {
	t.Helper()
	content := `player_name,season,matches,runs,batting_average,strike_rate,wickets,bowling_average,economy_rate,catches,stumpings
V Kohli,2022,16,741,55.1,142.0,0,No stats,No stats,8,0
V Kohli,2023,14,639,53.25,139.2,0,No stats,No stats,6,0
J Bumrah,2023,12,35,8.75,95.0,27,16.6,6.5,3,0
`
	path := filepath.Join(t.TempDir(), "performances.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	return path
}

func TestCSVSourceFetchPlayerSeasons(t *testing.T) {
	source := NewCSVSource(writeTestCSV(t), true, testLogger())

	seasons, err := source.FetchPlayerSeasons(context.Background(), 2023, 2023)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons for 2023, got %d", len(seasons))
	}
}

func TestCSVSourceFetchPlayer(t *testing.T) {
	source := NewCSVSource(writeTestCSV(t), true, testLogger())

	seasons, err := source.FetchPlayer(context.Background(), "V Kohli")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons for V Kohli, got %d", len(seasons))
	}

	if seasons[0].Runs != "741" {
		t.Errorf("expected runs '741', got '%s'", seasons[0].Runs)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	source := NewCSVSource("/nonexistent/performances.csv", true, testLogger())

	_, err := source.FetchPlayerSeasons(context.Background(), 2020, 2024)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, dsErr.Code)
	}
}
