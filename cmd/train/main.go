// Package main provides the entry point for the model training CLI tool.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/wicket-predictor/internal/config"
	"github.com/yourusername/wicket-predictor/internal/database"
	"github.com/yourusername/wicket-predictor/internal/ensemble"
	"github.com/yourusername/wicket-predictor/internal/features"
	"github.com/yourusername/wicket-predictor/internal/logger"
	"github.com/yourusername/wicket-predictor/internal/models"
	"github.com/yourusername/wicket-predictor/internal/repository"
	"github.com/yourusername/wicket-predictor/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		class      = flag.String("class", "", "Train only this stat class: batting, bowling, fielding")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel)

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"trees":       cfg.Training.Trees,
		"model_dir":   cfg.Training.ModelDir,
	}).Info("Wicket Predictor training starting")

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

	trainer := service.NewTrainingService(
		repos.Performance,
		repos.Model,
		store,
		ensemble.NewManager(),
		features.NewBuilder(appLog),
		nil,
		cfg.Training,
		appLog,
	)

	if *class != "" {
		statClass, err := resolveClass(*class)
		if err != nil {
			appLog.WithError(err).Fatal("Unknown stat class")
		}
		if err := trainer.TrainClass(ctx, statClass); err != nil {
			appLog.WithError(err).WithField("class", statClass).Fatal("Training failed")
		}
		appLog.WithField("class", statClass).Info("Training completed")
		return
	}

	if err := trainer.TrainAll(ctx); err != nil {
		appLog.WithError(err).Fatal("Training failed")
	}
	appLog.Info("Training completed for all stat classes")
}

func resolveClass(name string) (models.StatClass, error) {
	for _, class := range models.AllClasses {
		if string(class) == name {
			return class, nil
		}
	}
	return "", models.ErrNotFound
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
