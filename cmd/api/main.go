// Package main is the entrypoint for the QuestionConnection API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/questionconnection/backend/internal/app"
	"github.com/questionconnection/backend/internal/config"
	"github.com/questionconnection/backend/internal/server"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stdout)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	srv := server.New(
		a.Handler,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Registered first so the stores close after the worker drains.
	srv.OnShutdown("stores", a.CloseStores)

	if a.Worker != nil {
		workerCtx, cancelWorker := context.WithCancel(ctx)
		defer cancelWorker()

		go func() {
			if err := a.Worker.Run(workerCtx); err != nil {
				logger.Error("notify worker stopped", "error", err)
			}
		}()
		srv.OnShutdown("notify_worker", a.Worker.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"push_enabled", cfg.PushEnabled(),
		"notify_worker", a.Worker != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
