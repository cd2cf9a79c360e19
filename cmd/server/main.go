package main

import (
	"context"
	"fmt"
	"time"

	"github.com/paullj1/workout-tracker/internal/adapter"
	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/handler"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/server"
	"github.com/paullj1/workout-tracker/internal/service"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/workers"
)

// challengeSweepInterval is how often leftover ceremony challenges from
// abandoned begin calls are cleaned up.
const challengeSweepInterval = 10 * time.Minute

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("workout-tracker-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := store.NewConnect(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	services, err := service.NewServices(storages, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	apple := adapter.NewAppleService(cfg.App.Apple, log)

	handlers, err := handler.NewHandlers(services, apple, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	backgroundWorkers := workers.NewWorkers(
		workers.NewChallengeSweeper(storages.ChallengeRepository, cfg.App.ChallengeTTL, challengeSweepInterval, log),
	)
	backgroundWorkers.Run()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
