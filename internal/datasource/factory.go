package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wicket-predictor/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// StatsAPISourceType is the hosted cricket statistics API
	StatsAPISourceType SourceType = "stats_api"
	// CSVSourceType is a local CSV stat export
	CSVSourceType SourceType = "csv"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewDataSource creates a new DataSource based on the provided configuration
func (f *Factory) NewDataSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (DataSource, error) {
	switch SourceType(cfg.Name) {
	case StatsAPISourceType:
		if httpClient == nil {
			return nil, fmt.Errorf("HTTP client is required for stats_api")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("stats API key is required")
		}
		return NewStatsAPIClient(httpClient, cfg.APIKey, cfg.Enabled, f.logger), nil

	case CSVSourceType:
		if cfg.Path == "" {
			return nil, fmt.Errorf("CSV source requires a file path")
		}
		return NewCSVSource(cfg.Path, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewDataSources creates all enabled data sources from configuration
func (f *Factory) NewDataSources(dataCfg config.DataIngestionConfig, httpClient *RateLimitedHTTPClient) ([]DataSource, error) {
	var sources []DataSource

	for _, srcCfg := range dataCfg.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			continue
		}

		source, err := f.NewDataSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		f.logger.WithField("source", srcCfg.Name).Info("Created data source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
