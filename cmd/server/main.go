// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hostfolio/hostfolio/internal/api/bookings"
	calendarapi "github.com/hostfolio/hostfolio/internal/api/calendar"
	"github.com/hostfolio/hostfolio/internal/api/dashboard"
	"github.com/hostfolio/hostfolio/internal/booking"
	"github.com/hostfolio/hostfolio/internal/config"
	"github.com/hostfolio/hostfolio/internal/db"
	"github.com/hostfolio/hostfolio/internal/registry"
	"github.com/hostfolio/hostfolio/internal/scheduler"
	"github.com/hostfolio/hostfolio/internal/source"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// newSource picks the booking source: the upstream channel API when
// configured, the local SQLite store otherwise. Both expose the same
// Source/Mutator surface.
func newSource(cfg *config.Config) (source.Source, source.Mutator, error) {
	if cfg.Upstream.BaseURL != "" {
		client := source.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Token, cfg.UpstreamTimeout())
		log.Info().Str("base_url", cfg.Upstream.BaseURL).Msg("Using upstream booking source")
		return client, client, nil
	}

	database, err := db.New(cfg.Database.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open local source: %w", err)
	}
	log.Info().Str("filename", cfg.Database.Filename).Msg("Using local SQLite booking source")
	return database, database, nil
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	src, mutator, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create booking source")
	}

	reg := registry.New(src)
	fetcher := booking.NewFetcher(src, cfg.UpstreamTimeout(), cfg.Upstream.MaxConcurrentFetches)
	store := booking.NewStore(reg, fetcher)

	bookings.InitHandlers(store, mutator)
	calendarapi.InitHandlers(store)
	dashboard.InitHandlers(store)

	var sched *scheduler.Service
	if cfg.Refresh.PropertiesCron != "" {
		sched, err = scheduler.New()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create scheduler")
		}
		if err := sched.RegisterRegistryRefresh(cfg.Refresh.PropertiesCron, reg); err != nil {
			log.Fatal().Err(err).Msg("Failed to register registry refresh job")
		}
		sched.Start()
	}

	server := newServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if sched != nil {
			if err := sched.Stop(); err != nil {
				log.Error().Err(err).Msg("Scheduler shutdown error")
			}
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
