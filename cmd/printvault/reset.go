package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/printvault/internal/admin"
)

var (
	resetScope string
	resetYes   bool
)

func newResetCmd() *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete inventory or all stored data",
		Long: `Delete stored data.

--scope inventory removes owned and wishlist entries and keeps the catalog.
--scope all also removes every catalog entry.`,
		RunE: runReset,
	}

	resetCmd.Flags().StringVar(&resetScope, "scope", string(admin.ScopeInventory), "what to delete: inventory or all")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm the deletion")

	return resetCmd
}

func runReset(cmd *cobra.Command, _ []string) error {
	scope, err := admin.ParseScope(resetScope)
	if err != nil {
		return err
	}
	if !resetYes {
		return fmt.Errorf("refusing to reset %s without --yes", scope)
	}

	ctx, app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(app)

	res, err := (&admin.Resetter{Store: app.Store}).Reset(ctx, scope)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d inventory entries and %d catalog entries\n",
		res.InventoryDeleted, res.CatalogDeleted)
	return nil
}
