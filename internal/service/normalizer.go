package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/datasource"
	"github.com/yourusername/wicket-predictor/internal/models"
)

// DataNormalizer converts raw provider stat lines to internal performance records
type DataNormalizer struct {
	logger *logrus.Entry
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Logger) *DataNormalizer {
	return &DataNormalizer{
		logger: logger.WithField("component", "normalizer"),
	}
}

// Normalize converts one raw stat line to a PlayerPerformance record.
// Numeric placeholders like "No stats" become zero; an unparseable season
// is the only fatal condition.
func (n *DataNormalizer) Normalize(line datasource.PlayerSeasonData) (*models.PlayerPerformance, error) {
	name := sanitizeName(line.PlayerName)
	if name == "" {
		return nil, fmt.Errorf("player name is empty")
	}

	season, err := parseSeason(line.Season)
	if err != nil {
		return nil, fmt.Errorf("invalid season %q: %w", line.Season, err)
	}

	perf := &models.PlayerPerformance{
		PlayerName:     name,
		Season:         season,
		MatchesPlayed:  n.parseStat(name, "matches", line.Matches),
		RunsScored:     n.parseStat(name, "runs", line.Runs),
		BattingAverage: n.parseStat(name, "batting_average", line.BattingAverage),
		StrikeRate:     n.parseStat(name, "strike_rate", line.StrikeRate),
		WicketsTaken:   n.parseStat(name, "wickets", line.Wickets),
		BowlingAverage: n.parseStat(name, "bowling_average", line.BowlingAverage),
		EconomyRate:    n.parseStat(name, "economy_rate", line.EconomyRate),
		CatchesTaken:   n.parseStat(name, "catches", line.Catches),
		Stumpings:      n.parseStat(name, "stumpings", line.Stumpings),
	}

	sanitized := perf.Sanitized()
	return &sanitized, nil
}

// parseStat coerces one raw stat cell to a float. Placeholder values and
// parse failures become zero so one bad cell never drops the record.
func (n *DataNormalizer) parseStat(player, field, raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || isPlaceholder(cleaned) {
		return 0
	}

	// Providers format large run tallies with thousands separators
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		n.logger.WithFields(logrus.Fields{
			"player": player,
			"field":  field,
			"value":  raw,
		}).Debug("Coercing unparseable stat to zero")
		return 0
	}

	return v
}

// isPlaceholder reports whether a cell is a known no-data marker
func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "no stats", "n/a", "na", "-", "--":
		return true
	}
	return false
}

// parseSeason handles plain years ("2023") and spans ("2023/24", "2023-24"),
// keeping the opening year
func parseSeason(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	for _, sep := range []string{"/", "-"} {
		if i := strings.Index(cleaned, sep); i > 0 {
			cleaned = cleaned[:i]
			break
		}
	}

	season, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, err
	}
	return season, nil
}

// sanitizeName trims and collapses internal whitespace
func sanitizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
