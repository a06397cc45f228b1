// Package main is the entry point for the tradedesk market timing service.
// It serves the session clock, the upcoming market events and the derived alerts
// over HTTP and pushes poller snapshots to websocket subscribers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/tradedesk/internal/config"
	"github.com/aristath/tradedesk/internal/di"
	timinghandlers "github.com/aristath/tradedesk/internal/modules/timing/handlers"
	"github.com/aristath/tradedesk/internal/server"
	"github.com/aristath/tradedesk/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
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

	log.Info().Str("version", version).Msg("Starting tradedesk")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// First evaluation before serving, so /snapshot and the stream start populated.
	// A failure here is logged and retried by the scheduler.
	if err := container.Scheduler.RunNow(jobs.TimingPoll); err != nil {
		log.Warn().Err(err).Msg("Initial timing evaluation failed")
	}
	container.Scheduler.Start()

	timingHandler := timinghandlers.NewHandler(timinghandlers.Config{
		Service:        container.TimingService,
		Snapshots:      jobs.TimingPoll,
		Bus:            container.EventBus,
		Recorder:       container.Metrics,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	systemHandlers := server.NewSystemHandlers(server.SystemConfig{
		DB:          container.CalendarDB,
		Snapshots:   jobs.TimingPoll,
		Runner:      container.Scheduler,
		Subscribers: container.EventBus,
		Jobs:        jobs.All(),
		Version:     version,
		Log:         log,
	})

	srv := server.New(server.Config{
		Log:            log,
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		AllowedOrigins: cfg.AllowedOrigins,
		Timing:         timingHandler,
		System:         systemHandlers,
		Metrics:        container.Metrics.Handler(),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop the poller first so no snapshot is published into a closing server.
	container.Scheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
