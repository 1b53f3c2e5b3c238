package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/printvault/internal/application"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server on SERVER_HOST:SERVER_PORT until interrupted.

Shutdown waits up to SERVER_SHUTDOWN_TIMEOUT for requests and imports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := application.LoadConfig(envFiles()...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := application.New(ctx, cfg)
			if err != nil {
				return err
			}
			return application.Serve(ctx, app)
		},
	}
}
