// Package main provides the entry point for the match prediction CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/wicket-predictor/internal/config"
	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/ensemble"
	"github.com/yourusername/wicket-predictor/internal/features"
	"github.com/yourusername/wicket-predictor/internal/logger"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/predcache"
	"github.com/yourusername/wicket-predictor/internal/repository"
	"github.com/yourusername/wicket-predictor/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		team1      = flag.String("team1", "", "Comma-separated team 1 roster")
		team2      = flag.String("team2", "", "Comma-separated team 2 roster")
		venue      = flag.String("venue", "", "Match venue")
		opponent   = flag.String("opponent", "", "Opposition name for context adjustments")
		knockout   = flag.Bool("knockout", false, "Knockout match")
		chase      = flag.Bool("chase", false, "Second-innings chase")
		player     = flag.String("player", "", "Predict a single player instead of a match")
		class      = flag.String("class", "batting", "Stat class for single-player prediction")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel)
	ctx := context.Background()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build repositories")
	}

	store, err := ensemble.NewStore(cfg.Training.ModelDir)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to open model store")
	}

	manager := ensemble.NewManager()
	if err := manager.LoadAll(store); err != nil {
		appLog.WithError(err).Fatal("Failed to load stored models")
	}
	if !manager.Loaded() {
		appLog.Fatal("No trained models found; run the training tool first")
	}

	cache := predcache.NewPredictionCache(cfg.GetCacheTTL(), cfg.Prediction.CacheMaxSize)
	svc := service.NewPredictionService(manager, features.NewBuilder(appLog), repos.Performance, repos.Prediction, cache, appLog)

	if *player != "" {
		predictOnePlayer(ctx, svc, appLog, *player, *class)
		return
	}

	roster1 := splitRoster(*team1)
	roster2 := splitRoster(*team2)
	if len(roster1) == 0 || len(roster2) == 0 {
		appLog.Fatal("Both -team1 and -team2 rosters are required")
	}

	matchCtx := models.MatchContext{
		Venue:      *venue,
		Opponent:   *opponent,
		IsKnockout: *knockout,
		IsChase:    *chase,
	}

	start := time.Now()
	outcome, err := svc.PredictMatch(ctx, matchCtx, roster1, roster2)
	if err != nil {
		appLog.WithError(err).Fatal("Match prediction failed")
	}

	appLog.WithFields(logrus.Fields{
		"venue":      *venue,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Info("Match prediction completed")

	writeJSON(outcome)
}

func predictOnePlayer(ctx context.Context, svc *service.PredictionService, appLog *logrus.Logger, player, class string) {
	statClass, err := resolveClass(class)
	if err != nil {
		appLog.WithField("class", class).Fatal("Unknown stat class")
	}

	result, err := svc.PredictPlayer(ctx, player, statClass)
	if err != nil {
		appLog.WithError(err).WithField("player", player).Fatal("Player prediction failed")
	}
	writeJSON(result)
}

func resolveClass(name string) (models.StatClass, error) {
	for _, class := range models.AllClasses {
		if string(class) == name {
			return class, nil
		}
	}
	return "", models.ErrNotFound
}

func splitRoster(raw string) []string {
	var roster []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			roster = append(roster, name)
		}
	}
	return roster
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
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
