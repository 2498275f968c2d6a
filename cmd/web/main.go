package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/turhan-exe/Soccer-React-sub000/internal/config"
	"github.com/turhan-exe/Soccer-React-sub000/internal/db"
	"golang.org/x/time/rate"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	presets, err := config.LoadPresets(cfg.TournamentConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tournament presets")
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	routes := routerConfig{AllowedOrigins: cfg.AllowedOrigins}
	if cfg.WriteRateLimit > 0 {
		burst := max(1, int(2*cfg.WriteRateLimit))
		routes.WriteLimiter = rate.NewLimiter(rate.Limit(cfg.WriteRateLimit), burst)
	}

	app := newApplication(database, presets, clockwork.NewRealClock())
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(app, routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
