package main

import (
	"context"
	"errors"
	"os"

	"libfine/internal/backend"
	"libfine/internal/cli"
	"libfine/internal/log"
	"libfine/internal/services"
	"libfine/internal/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel)

	policy, err := cfg.FinePolicy()
	if err != nil {
		logger.Error("Invalid fine policy", log.FieldError, err)
		return 1
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return 1
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		return 1
	}

	var publisher services.FinePublisher
	if client := cli.InitAMQP(logger, cfg, false); client != nil {
		publisher = client
	}

	svc := services.NewBorrowingService(result.Store, policy, publisher,
		services.WithCurrency(cfg.Currency),
		services.WithLogger(logger))
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Shutdown error", log.FieldError, err, log.FieldOperation, log.OpShutdown)
		}
	}()

	logger.Info("Starting libfine console",
		"allowed_days", policy.AllowedDays,
		"fine_per_day", policy.FinePerDay.String(),
		log.FieldBackend, cfg.DataBackend,
		log.FieldOperation, log.OpStartup)

	console := shell.NewConsole(os.Stdin, os.Stdout, svc,
		shell.WithCurrency(cfg.Currency),
		shell.WithLogger(logger))

	err = console.Run(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shell.ErrInputClosed):
		// input ended before every book was entered
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("Interrupted", log.FieldOperation, log.OpShutdown)
		return 130
	default:
		logger.Error("Session failed", log.FieldError, err)
		return 1
	}
}
