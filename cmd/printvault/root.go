package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/printvault/internal/application"
	"github.com/JonMunkholm/printvault/internal/core"
)

// Global flags
var flagEnvFile string

// rootCmd is the base command for the printvault CLI.
var rootCmd = &cobra.Command{
	Use:   "printvault",
	Short: "Paint catalog and inventory",
	Long: `printvault keeps a catalog of hobby paints and tracks which ones you
own or want.

It provides commands to:
  - Serve the HTTP API
  - Import catalog files (comma or semicolon delimited)
  - Print a sample import file
  - Reset inventory or the whole catalog`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "load environment from this file instead of .env")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newSampleCmd())
}

// openApp loads configuration and storage for a subcommand. The returned
// context is tagged with the "cli" source.
func openApp(cmd *cobra.Command) (context.Context, *application.App, error) {
	cfg, err := application.LoadConfig(envFiles()...)
	if err != nil {
		return nil, nil, err
	}

	ctx := core.ContextWithSource(cmd.Context(), "cli")
	app, err := application.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, app, nil
}

// envFiles returns the --env-file override, or nil for the default .env.
func envFiles() []string {
	if flagEnvFile == "" {
		return nil
	}
	return []string{flagEnvFile}
}

// closeApp releases the app, giving running imports a short grace period.
func closeApp(app *application.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.Close(ctx)
}
