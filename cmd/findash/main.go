package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"findash/internal/amqp"
	"findash/internal/backend"
	"findash/internal/cache"
	"findash/internal/cli"
	apphttp "findash/internal/http"
	"findash/internal/middleware/ratelimit"
	"findash/internal/services"
	"findash/internal/sheets"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("findash")
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", "error", err)
		}
	}()

	provider := services.NewTableProvider(res.Backend, 8, cfg.CacheTTL)
	caches := cache.NewManager()
	caches.Register(provider.Cache())
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	dashCfg, err := cli.DashboardConfig(cfg)
	if err != nil {
		logger.Error("Invalid pipeline configuration", "error", err)
		os.Exit(1)
	}

	// Refresh requests go to the worker only when a broker is configured.
	var publisher sheets.RefreshPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP refresh publisher enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - refresh only drops the local cache")
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		Dashboard:    services.NewDashboardService(provider, dashCfg),
		Tables:       provider,
		Publisher:    publisher,
		Logger:       logger,
		ShareBaseURL: cfg.ShareBaseURL,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting findash server",
		"port", cfg.Port, "backend", cfg.DataBackend, "sheet", cfg.SheetName, "locale", cfg.CurrencyLocale)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
