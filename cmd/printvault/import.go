package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/printvault/internal/core"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Merge catalog files into the catalog",
		Long: `Merge one or more delimited catalog files into the catalog.

Each file needs brand, range, type, manufacturerCode and name columns.
Rows with a positive collectionQuantity set the owned quantity exactly.
Files are applied in order; a failing file stops the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(app)

	out := cmd.OutOrStdout()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		report, err := app.Service.ImportCSV(ctx, filepath.Base(path), f)
		f.Close()
		if err != nil {
			fmt.Fprintf(out, "%s: %d paints imported before failure\n", path, report.PaintsUpserted)
			if core.IsUserFacing(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), core.FormatUserError(err))
			}
			return err
		}

		fmt.Fprintf(out, "%s: %d paints imported, %d collection entries updated\n",
			path, report.PaintsUpserted, report.CollectionUpdated)
	}
	return nil
}
