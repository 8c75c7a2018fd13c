package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// csvColumns maps the expected header names to stat line fields. Extra
// columns are ignored; missing ones produce empty strings that the
// ingestion normalizer coerces to zero.
var csvColumns = []string{
	"player_name", "season", "matches", "runs", "batting_average",
	"strike_rate", "wickets", "bowling_average", "economy_rate",
	"catches", "stumpings",
}

// CSVSource implements DataSource for local CSV stat exports
type CSVSource struct {
	path    string
	enabled bool
	logger  *logrus.Entry
}

// NewCSVSource creates a data source backed by a CSV file
func NewCSVSource(path string, enabled bool, logger *logrus.Logger) *CSVSource {
	return &CSVSource{
		path:    path,
		enabled: enabled,
		logger:  logger.WithField("source", "csv"),
	}
}

// FetchPlayerSeasons reads all stat lines within the specified season range
func (s *CSVSource) FetchPlayerSeasons(ctx context.Context, startSeason, endSeason int) ([]PlayerSeasonData, error) {
	all, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]PlayerSeasonData, 0, len(all))
	for _, line := range all {
		season, err := strconv.Atoi(line.Season)
		if err != nil {
			s.logger.WithField("season", line.Season).Warn("Skipping row with unparseable season")
			continue
		}
		if season >= startSeason && season <= endSeason {
			filtered = append(filtered, line)
		}
	}
	return filtered, nil
}

// FetchPlayer reads all stat lines for one player
func (s *CSVSource) FetchPlayer(ctx context.Context, playerName string) ([]PlayerSeasonData, error) {
	all, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]PlayerSeasonData, 0)
	for _, line := range all {
		if line.PlayerName == playerName {
			filtered = append(filtered, line)
		}
	}
	return filtered, nil
}

func (s *CSVSource) readAll(ctx context.Context) ([]PlayerSeasonData, error) {
	if !s.enabled {
		return nil, NewDataSourceError("csv", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, NewDataSourceError("csv", ErrCodeNotFound, fmt.Sprintf("failed to open %s", s.path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewDataSourceError("csv", ErrCodeInvalidData, "failed to parse CSV", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Resolve column positions from the header row
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	now := time.Now().UTC()
	lines := make([]PlayerSeasonData, 0, len(records)-1)
	for _, row := range records[1:] {
		name := cell(row, csvColumns[0])
		if name == "" {
			continue
		}
		lines = append(lines, PlayerSeasonData{
			PlayerName:     name,
			Season:         cell(row, "season"),
			Matches:        cell(row, "matches"),
			Runs:           cell(row, "runs"),
			BattingAverage: cell(row, "batting_average"),
			StrikeRate:     cell(row, "strike_rate"),
			Wickets:        cell(row, "wickets"),
			BowlingAverage: cell(row, "bowling_average"),
			EconomyRate:    cell(row, "economy_rate"),
			Catches:        cell(row, "catches"),
			Stumpings:      cell(row, "stumpings"),
			FetchedAt:      now,
		})
	}

	return lines, nil
}

// Name returns the data source name
func (s *CSVSource) Name() string {
	return "csv"
}

// IsEnabled returns whether this data source is enabled
func (s *CSVSource) IsEnabled() bool {
	return s.enabled
}
