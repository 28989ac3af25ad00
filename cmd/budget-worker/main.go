package main

import (
	"os"
	"time"

	"budgetdash/internal/amqp"
	"budgetdash/internal/backend"
	"budgetdash/internal/cli"
	"budgetdash/internal/worker"
)

func main() {
	logger, cfg := cli.Bootstrap()
	logger.Info("Starting budget-worker")

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the activity worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	activity, err := backend.NewFactory(logger).CreateSheets(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize activity sheet", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewActivityWorker(activity, worker.DefaultDedupeSize)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := w.Stats()
				logger.Info("Activity worker stats", "appended", s.Appended, "skipped", s.Skipped, "failed", s.Failed)
			}
		}
	}()

	if err := w.Run(ctx, amqpClient); err != nil {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	s := w.Stats()
	logger.Info("Worker shutdown complete", "appended", s.Appended, "skipped", s.Skipped, "failed", s.Failed)
}
