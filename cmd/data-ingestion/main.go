// Package main provides the entry point for the data ingestion service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/wicket-predictor/internal/config"
	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/datasource"
	"github.com/yourusername/wicket-predictor/internal/health"
	"github.com/yourusername/wicket-predictor/internal/logger"
	"github.com/yourusername/wicket-predictor/internal/metrics"
	"github.com/yourusername/wicket-predictor/internal/repository"
	"github.com/yourusername/wicket-predictor/internal/scheduler"
	"github.com/yourusername/wicket-predictor/internal/service"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		source      = flag.String("source", "", "Run a one-off sync from this source and exit")
		startSeason = flag.Int("start-season", 0, "First season for a one-off sync")
		endSeason   = flag.Int("end-season", 0, "Last season for a one-off sync")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel)

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Wicket Predictor ingestion service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build repositories")
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), appLog)
	factory := datasource.NewFactory(cfg, appLog)
	sources, err := factory.NewDataSources(cfg.DataIngestion, httpClient)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build data sources")
	}
	if len(sources) == 0 {
		appLog.Fatal("No enabled data sources configured")
	}

	ingestionSvc := service.NewIngestionService(
		sources,
		repos.Performance,
		service.NewDataValidator(appLog),
		service.NewDataNormalizer(appLog),
		appLog,
		batchSize(cfg),
	)

	if *source != "" {
		runOneOffSync(ctx, ingestionSvc, appLog, *source, *startSeason, *endSeason)
		return
	}

	metrics.InitRegistry()

	sched := scheduler.NewScheduler(ingestionSvc, nil, appLog)
	for _, src := range sources {
		if err := sched.ScheduleHistoricalSync(cfg.DataIngestion.Schedule.HistoricalSync, src.Name()); err != nil {
			appLog.WithError(err).WithField("source", src.Name()).Fatal("Failed to schedule historical sync")
		}
	}
	if err := sched.ScheduleSourcePolling(cfg.DataIngestion.Schedule.PollingIntervalSeconds); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule source polling")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	healthSrv := buildHealthServer(cfg, appLog, db)
	if err := healthSrv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthSrv.SetReady(true)

	appLog.WithField("next_run", sched.GetNextRun()).Info("Ingestion service running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthSrv.SetReady(false)
	cancel()
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Ingestion service shut down successfully")
}

func runOneOffSync(ctx context.Context, svc *service.IngestionService, appLog *logrus.Logger, source string, startSeason, endSeason int) {
	if endSeason == 0 {
		endSeason = time.Now().UTC().Year()
	}
	if startSeason == 0 {
		startSeason = endSeason - 5
	}

	appLog.WithFields(logrus.Fields{
		"source":       source,
		"start_season": startSeason,
		"end_season":   endSeason,
	}).Info("Running one-off historical sync")

	ingestionMetrics, err := svc.IngestHistoricalData(ctx, source, startSeason, endSeason)
	if err != nil {
		appLog.WithError(err).Fatal("Historical sync failed")
	}
	appLog.WithField("summary", ingestionMetrics.String()).Info("Historical sync completed")
}

func buildHealthServer(cfg *config.Config, appLog *logrus.Logger, db *database.DB) *health.Server {
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Logger:      appLog,
		DB:          db,
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.Port = strconv.Itoa(cfg.Metrics.Port)
	}
	return health.NewServer(healthCfg)
}

func batchSize(cfg *config.Config) int {
	for _, src := range cfg.DataIngestion.Sources {
		if src.Enabled && src.BatchSize > 0 {
			return src.BatchSize
		}
	}
	return 0
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
