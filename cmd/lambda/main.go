// Package main is the AWS Lambda entrypoint. API Gateway proxy events are
// served by the same router as the standalone server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/questionconnection/backend/internal/app"
	"github.com/questionconnection/backend/internal/config"
	"github.com/questionconnection/backend/internal/lambdaproxy"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Notifications are drained by the long-running worker, not per invocation.
	cfg.NotifyWorkerEnabled = false

	logger := app.NewLogger(cfg, os.Stdout)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	logger.Info("lambda handler ready",
		"function", os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		"env", cfg.AppEnv,
	)

	lambda.Start(lambdaproxy.New(a.Handler, logger).Handle)
}
