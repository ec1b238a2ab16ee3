// Package cli provides common CLI initialization utilities shared by
// cmd/findash, cmd/findash-worker and cmd/findash-report.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"findash/internal/config"
	applog "findash/internal/log"
	"findash/internal/services"
	"findash/internal/storage"
)

// SetupLogger initializes structured logging from LOG_LEVEL and LOG_FORMAT
// and installs it as the default logger.
func SetupLogger(component string) *applog.Logger {
	return applog.Setup(component)
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, applies the optional profile
// and validates the result. Exits the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.ApplyProfile(); err != nil {
		logger.Error("Failed to load pipeline profile", "error", err, "path", cfg.ProfileFile)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}

// DashboardConfig builds the pipeline settings from the application config.
func DashboardConfig(cfg *config.Config) (services.DashboardConfig, error) {
	classifier, err := services.GetClassifier(services.ClassificationMode(cfg.Classification), services.ClassifierConfig{
		NetRevenueLabel: cfg.NetRevenueLabel,
		RevenueKeywords: cfg.RevenueKeywords,
		ExpenseKeywords: cfg.ExpenseKeywords,
	})
	if err != nil {
		return services.DashboardConfig{}, fmt.Errorf("classifier: %w", err)
	}
	return services.DashboardConfig{
		Sheet:  cfg.SheetName,
		Drop:   cfg.DropColumns,
		Locale: cfg.CurrencyLocale,
		Summary: services.SummaryOptions{
			NetRevenueLabel: cfg.NetRevenueLabel,
			Classifier:      classifier,
		},
	}, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup ran.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
