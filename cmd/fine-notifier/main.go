package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"libfine/internal/amqp"
	"libfine/internal/cli"
	"libfine/internal/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentNotifier)

	logger.Info("Starting fine-notifier",
		"queue", cfg.AMQPQueue,
		log.FieldOperation, log.OpStartup)

	client := cli.InitAMQP(logger, cfg, true)
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	ctx = log.WithLogger(ctx, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeFineAssessed(ctx, func(ctx context.Context, msg *amqp.FineAssessedMessage) error {
			logger.InfoContext(ctx, "Fine assessed",
				log.FieldMessageID, msg.ID,
				log.FieldSessionID, msg.SessionID,
				log.FieldCustomer, msg.Customer,
				log.FieldRecords, msg.Records,
				"overdue_records", msg.Overdue,
				"total_fine", msg.Currency+" "+msg.TotalFine().String())
			return nil
		})
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Stopping consumer", log.FieldOperation, log.OpShutdown)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err)
		return 1
	}
	logger.Info("fine-notifier stopped")
	return 0
}
