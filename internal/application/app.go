// Package application wires configuration, storage and the service layer
// for the server and CLI binaries.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/printvault/internal/config"
	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/logging"
	"github.com/JonMunkholm/printvault/internal/storage"
)

// App holds the long-lived collaborators of a running process.
type App struct {
	Config  *config.Config
	Store   core.Store
	Service *core.Service

	closeStore func()
}

// LoadConfig reads .env files (overwriting existing env vars), loads and
// validates configuration and sets up the global logger.
func LoadConfig(envFiles ...string) (*config.Config, error) {
	if err := godotenv.Overload(envFiles...); err != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration", "config", cfg.String())
	return cfg, nil
}

// New opens the configured store and builds the service over it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	svc := core.NewService(st, core.ServiceOptions{
		MaxImportSize:        cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportWait:           cfg.Import.MaxWaitTime,
		ImportTimeout:        cfg.Import.Timeout,
	})

	slog.Info("application ready",
		"storage", cfg.Storage.Driver,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"import_max_file_size", cfg.Import.MaxFileSize,
	)

	return &App{Config: cfg, Store: st, Service: svc, closeStore: closeStore}, nil
}

// Close waits for running imports up to ctx and releases the store.
func (a *App) Close(ctx context.Context) {
	limiter := a.Service.Limiter()
	if n := limiter.ActiveCount(); n > 0 {
		slog.Info("waiting for imports to complete", "active", n)
		if err := limiter.WaitForDrain(ctx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		} else {
			slog.Info("all imports completed")
		}
	}
	a.closeStore()
}
