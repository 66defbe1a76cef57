package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ralph-groupscholar/website/internal/config"
	"github.com/ralph-groupscholar/website/internal/intake"
	"github.com/ralph-groupscholar/website/internal/logger"
	"github.com/ralph-groupscholar/website/internal/metrics"
	spg "github.com/ralph-groupscholar/website/internal/storage/postgres"
	transport "github.com/ralph-groupscholar/website/internal/transport/http"
)

func main() {
	cfg := config.Parse()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Logger

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	log.Info().
		Str("env", cfg.AppEnv).
		Str("port", cfg.Port).
		Bool("storage", cfg.StorageConfigured()).
		Bool("rate_limit", cfg.RateLimitEnabled).
		Msg("config loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// store stays a nil interface when unconfigured so the service serves fallbacks.
	var store intake.Store
	if cfg.StorageConfigured() {
		db, err := spg.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect")
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, log); err != nil {
				db.Close()
				log.Fatal().Err(err).Msg("migration")
			}
			log.Info().Msg("db: migrations applied")
		}
		store = spg.NewStore(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set; serving fallback payloads")
	}

	m := metrics.New()
	deps := &transport.ServerDeps{
		Cfg:     cfg,
		Service: intake.NewService(store, intake.WithMetrics(m)),
		Metrics: m,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("http server")
		cancel()
		os.Exit(1)
	}

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel2()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}
