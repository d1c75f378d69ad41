package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/config"
	mongoinfra "github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/db/mongo"
	"github.com/sponsorfinder/sponsorfinder-api/internal/scraper"
	"github.com/sponsorfinder/sponsorfinder-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadScraper(ctx)
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

	if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	s := scraper.New(mongoinfra.NewBrandRepository(db), scraper.Options{
		Feeds:       cfg.Feeds,
		MaxEpisodes: cfg.MaxEpisodes,
		Workers:     cfg.Workers,
	}, log)

	found, err := s.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("new_sponsors", found).Msg("scrape aborted")
	}
	log.Info().Int("new_sponsors", found).Msg("done")
}
