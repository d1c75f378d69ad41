package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sponsorfinder/sponsorfinder-api/internal/enricher"
	"github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/config"
	mongoinfra "github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/db/mongo"
	"github.com/sponsorfinder/sponsorfinder-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadEnricher(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true})

	mongoClient, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	var hunter *enricher.HunterClient
	if cfg.HunterAPIKey != "" {
		hunter = enricher.NewHunterClient(cfg.HunterAPIKey)
	} else {
		log.Warn().Msg("HUNTER_API_KEY not set, skipping the Hunter.io step")
	}

	e := enricher.New(
		mongoinfra.NewBrandRepository(db),
		mongoinfra.NewContactRepository(db),
		hunter,
		enricher.NewTeamPageScraper(),
		log,
	)

	stats, err := e.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("enrichment aborted")
	}
	log.Info().
		Int("brands", stats.Brands).
		Int("enriched", stats.Enriched).
		Int("contacts", stats.Contacts).
		Msg("done")
}
