// Package cli wires configuration, logging and storage into a Tracker and
// implements the fintrack commands on top of it.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/persist"
	"fintrack/internal/services"
)

// SetupLogger builds the stderr logger at level and makes it the default.
// An unparsable level falls back to warn.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if l, err := log.ParseLevel(level); err == nil {
		cfg.Level = l
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IDGenerator returns the generator named by strategy.
func IDGenerator(strategy string) core.IDGenerator {
	if strategy == "counter" {
		return core.NewCounter()
	}
	return core.NewClock(nil)
}

// OpenTracker builds the configured blob store and loads a Tracker from it.
// The returned cleanup closes the store.
func OpenTracker(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.Tracker, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone: %w", err)
	}

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create backend: %w", err)
	}

	bridge := persist.NewBridge(res.Store, logger, cfg.PersistTimeout)
	tracker, err := services.Open(ctx, bridge, services.Options{
		IDs:       IDGenerator(cfg.IDStrategy),
		Location:  loc,
		CacheSize: cfg.AggregateCacheSize,
		Logger:    logger,
	})
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, nil, fmt.Errorf("open tracker: %w", err)
	}

	txs, budgets, goals := tracker.Counts()
	logger.DebugContext(ctx, "Tracker ready", log.FieldOperation, log.OpStartup, log.FieldBackend, bcfg.Type.String(),
		"transactions", txs, "budgets", budgets, "goals", goals)
	return tracker, res.Cleanup, nil
}
