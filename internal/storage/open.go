// Package storage selects and opens the configured core.Store.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/printvault/internal/config"
	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/storage/memstore"
	"github.com/JonMunkholm/printvault/internal/storage/pgstore"
)

// Pinger is implemented by stores backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open returns the store named by cfg.Storage.Driver and a function that
// releases it.
func Open(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.DriverMemory:
		slog.Warn("using in-memory storage; data is lost on exit")
		return memstore.New(), func() {}, nil

	case config.DriverPostgres:
		st, err := pgstore.Open(ctx, cfg.Database.URL, pgstore.PoolOptions{
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		slog.Info("database connection established",
			"max_conns", cfg.Database.MaxConns,
			"min_conns", cfg.Database.MinConns,
		)
		return st, st.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
