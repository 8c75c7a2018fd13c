// Package config provides configuration management for the Wicket Predictor application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Training      TrainingConfig      `mapstructure:"training" validate:"required"`
	Prediction    PredictionConfig    `mapstructure:"prediction" validate:"required"`
	DataIngestion DataIngestionConfig `mapstructure:"data_ingestion" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// TrainingConfig represents model training configuration
type TrainingConfig struct {
	Trees           int     `mapstructure:"trees" validate:"required,gt=0"`
	MinSamplesLeaf  int     `mapstructure:"min_samples_leaf" validate:"required,gt=0"`
	MaxDepth        int     `mapstructure:"max_depth" validate:"required,gt=0"`
	Seed            int64   `mapstructure:"seed"`
	Workers         int     `mapstructure:"workers" validate:"required,gt=0"`
	HoldoutFraction float64 `mapstructure:"holdout_fraction" validate:"gte=0,lt=1"`
	ModelDir        string  `mapstructure:"model_dir" validate:"required"`
	Schedule        string  `mapstructure:"schedule" validate:"required,cronexpr"`
}

// PredictionConfig represents prediction serving configuration
type PredictionConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize    int `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// DataIngestionConfig represents data ingestion configuration
type DataIngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
	Path      string `mapstructure:"path"`
}

// ScheduleConfig represents data ingestion scheduling
type ScheduleConfig struct {
	HistoricalSync         string `mapstructure:"historical_sync" validate:"required,cronexpr"`
	PollingIntervalSeconds int    `mapstructure:"polling_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetCacheTTL returns the prediction cache TTL as a duration
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Prediction.CacheTTLSeconds) * time.Second
}
