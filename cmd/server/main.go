// Package main is the entry point for the moatwatch service.
// It scores the daily equity snapshot on a schedule, keeps the run history in
// an audit database, renders the picks report and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aristath/moatwatch/internal/di"
	"github.com/aristath/moatwatch/internal/server"
	"github.com/aristath/moatwatch/internal/services/analysis"
	"github.com/aristath/moatwatch/pkg/logger"
)

// main orchestrates the startup sequence:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container
// 4. Starts the HTTP server and the scheduler
// 5. Optionally runs an analysis immediately
// 6. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting moatwatch")

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// Closing the database writes the final WAL checkpoint
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		OutputDir: cfg.OutputDir,
		AuditDB:   container.AuditDB,
		Runs:      container.AuditRepo,
		Analysis:  container.AnalysisJob,
		Scoring:   container.ScoringHandlers,
		Events:    container.EventBus,
		Scheduler: container.Scheduler,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	container.Scheduler.Start()
	log.Info().
		Str("schedule", cfg.Schedule).
		Str("timezone", cfg.Timezone).
		Time("next_run", container.Scheduler.NextRun()).
		Msg("Analysis scheduled")

	if cfg.RunOnStart {
		go func() {
			if _, err := container.AnalysisJob.Execute(context.Background(), analysis.TriggerStartup); err != nil {
				log.Error().Err(err).Msg("Startup analysis failed")
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop the scheduler first; it waits for a running analysis to finish
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
