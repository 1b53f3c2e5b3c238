package application

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/printvault/internal/web"
)

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout and waits for running imports.
func Serve(ctx context.Context, app *App) error {
	server := web.NewServer(app.Service, app.Config)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	app.Close(shutdownCtx)

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
