// Command intake-seed applies migrations and fills empty intake tables with
// the starter impact signals and sample intents.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ralph-groupscholar/website/internal/config"
	"github.com/ralph-groupscholar/website/internal/logger"
	spg "github.com/ralph-groupscholar/website/internal/storage/postgres"
)

func main() {
	cfg := config.Parse()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Logger

	if !cfg.StorageConfigured() {
		log.Fatal().Msg("DATABASE_URL must be set to seed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := spg.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	if err := db.Ready(ctx); err != nil {
		log.Fatal().Err(err).Msg("db unreachable")
	}
	if err := db.Migrate(ctx, log); err != nil {
		log.Fatal().Err(err).Msg("migration")
	}

	res, err := db.Seed(ctx, spg.DefaultSignals, spg.DefaultIntents)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int("signals", res.Signals).Int("intents", res.Intents).Msg("seed complete")
}
