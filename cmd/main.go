// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/database"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/handler"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/logger"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "activities: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	log = log.With(zap.String("app", cfg.App.Name), zap.String("environment", cfg.App.Environment))

	// ── 2. Roster store ──────────────────────────────────────────────────
	seed, err := repository.LoadSeed(cfg.Roster.SeedFile)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	store, closeStore, err := database.OpenRosterStore(ctx, cfg, seed, log)
	if err != nil {
		return fmt.Errorf("roster store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("closing roster store", zap.Error(err))
		}
	}()
	log.Info("roster store ready",
		zap.String("driver", cfg.Roster.Driver),
		zap.Int("activities", len(seed)),
	)

	// ── 3. Wire up layers ────────────────────────────────────────────────
	svc := service.NewRosterService(store, log)
	if cfg.Roster.ResetOnStart {
		if err := svc.Reset(ctx); err != nil {
			return fmt.Errorf("reset roster: %w", err)
		}
	}
	activityHandler := handler.NewActivityHandler(svc, log)
	router := handler.NewRouter(activityHandler, log, cfg.Server.StaticDir)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
