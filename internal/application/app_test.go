package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/printvault/internal/config"
	"github.com/JonMunkholm/printvault/internal/core"
)

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("IMPORT_MAX_CONCURRENT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_DRIVER=memory\nIMPORT_MAX_CONCURRENT=5\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Import.MaxConcurrent)
}

func TestNew_MemoryStore(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Import:  config.ImportConfig{MaxConcurrent: 1},
	}

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close(context.Background())

	res, err := app.Service.ImportText(context.Background(), core.SampleCSV())
	require.NoError(t, err)
	assert.Equal(t, 2, res.PaintsUpserted)
	assert.Equal(t, 1, app.Service.Limiter().Available())
}

func TestNew_BadDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "nope"}})
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
	}
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
