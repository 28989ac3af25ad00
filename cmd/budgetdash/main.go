package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetdash/internal/backend"
	"budgetdash/internal/cli"
	apphttp "budgetdash/internal/http"
	"budgetdash/internal/log"
	"budgetdash/internal/services"
)

func main() {
	logger, cfg := cli.Bootstrap()

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	hub := apphttp.NewHub()
	opts := append(result.ServiceOptions(), services.WithBroadcaster(hub))
	svc := services.NewLedgerService(result.Store, opts...)

	if cfg.LoadDemo {
		if err := svc.LoadDemo(ctx); err != nil {
			logger.Error("Failed to load demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("Demo data loaded")
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, hub, apphttp.ServerConfig{
		RecentLimit: cfg.RecentLimit,
		CacheTTL:    cfg.CacheTTL,
		Logger: log.New(log.Config{
			Handler:   logger.Handler(),
			Component: log.ComponentHTTP,
		}),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budgetdash server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.ReportExportInterval > 0 {
		processor := services.NewReportProcessor(svc, services.ReportProcessorConfig{Interval: cfg.ReportExportInterval})
		g.Go(func() error {
			if err := processor.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return processor.Stop(stopCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
