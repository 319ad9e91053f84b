package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/app"
	"github.com/omerhaim/origindaily/internal/config"
	"github.com/omerhaim/origindaily/internal/constants"
	"github.com/omerhaim/origindaily/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("OriginDaily starting...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Logging.Level),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore today's set if one was already generated; otherwise build one
	// in the background so the server can start listening immediately.
	if err := container.Curator.LoadPersisted(); err != nil {
		logger.Warn("Failed to restore daily set", zap.Error(err))
	}
	if container.Curator.Today().Empty() {
		go func() {
			if _, err := container.Curator.GenerateDaily(ctx); err != nil {
				logger.Error("Initial daily generation failed", zap.Error(err))
			}
		}()
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Daily.CronSpec, func() {
		if _, err := container.Curator.GenerateDaily(ctx); err != nil {
			logger.Error("Scheduled daily generation failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("Invalid cron spec", zap.String("spec", cfg.Daily.CronSpec), zap.Error(err))
		os.Exit(1)
	}
	scheduler.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := container.Server.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	logger.Info("Shutting down gracefully...")
	cancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ServerConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := container.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
