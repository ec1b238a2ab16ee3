package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"findash/internal/amqp"
	"findash/internal/backend"
	"findash/internal/cli"
	applog "findash/internal/log"
	"findash/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting findash-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker reads upstream and writes snapshots; the sqlite store is
	// always the sink, never the source.
	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	sourceCfg.Type = backend.BackendType(cfg.RefreshSource)

	source, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), sourceCfg)
	if err != nil {
		logger.Error("Failed to initialize refresh source", "error", err, "source", cfg.RefreshSource)
		os.Exit(1)
	}
	defer source.Close()

	sink := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sink.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - refreshing on the interval only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	refresher := services.NewRefresher(source.Backend, sink, cfg.RefreshSource)
	refresher.OnRefresh(func(sheet string) {
		if _, err := sink.PruneSnapshots(ctx, sheet, cfg.SnapshotRetention); err != nil {
			logger.Warn("Failed to prune snapshots", "sheet", sheet, "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refresher.Run(gctx, cfg.RefreshInterval, cfg.SheetName)
	})
	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeRefresh(gctx, func(ctx context.Context, msg *amqp.RefreshMessage) error {
				logger.InfoContext(ctx, "Refresh requested", "sheet", msg.Sheet, "request_id", msg.RequestID)
				_, err := refresher.Refresh(ctx, msg.Sheet)
				return err
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
