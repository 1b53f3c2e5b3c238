// Package admin provides destructive maintenance operations.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/logging"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// Scope selects what a reset clears.
type Scope string

const (
	// ScopeInventory clears owned and wishlist entries and keeps the catalog.
	ScopeInventory Scope = "inventory"
	// ScopeAll clears inventory and the catalog.
	ScopeAll Scope = "all"
)

// ParseScope accepts "inventory" or "all" in any letter case.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeInventory:
		return ScopeInventory, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("%w: unknown reset scope %q", core.ErrInvalidInput, s)
	}
}

// ResetResult counts what a reset removed.
type ResetResult struct {
	Scope            Scope `json:"scope"`
	InventoryDeleted int64 `json:"inventoryDeleted"`
	CatalogDeleted   int64 `json:"catalogDeleted"`
}

// Resetter clears stored data.
type Resetter struct {
	Store core.Store
}

type resetFn func(ctx context.Context, tx core.Store, res *ResetResult) error

// Reset clears the data named by scope in one transaction.
// This is a destructive operation - use with caution.
func (r *Resetter) Reset(ctx context.Context, scope Scope) (ResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	resets := []resetFn{resetInventory}
	switch scope {
	case ScopeInventory:
	case ScopeAll:
		resets = append(resets, resetCatalog)
	default:
		return ResetResult{}, fmt.Errorf("%w: unknown reset scope %q", core.ErrInvalidInput, scope)
	}

	var res ResetResult
	err := r.Store.WithTx(ctx, func(tx core.Store) error {
		res = ResetResult{Scope: scope}
		return runResets(ctx, tx, &res, resets)
	})
	if err != nil {
		return ResetResult{}, fmt.Errorf("reset %s: %w", scope, err)
	}

	logging.FromContext(ctx).Warn("data reset",
		"scope", scope,
		"inventory_deleted", res.InventoryDeleted,
		"catalog_deleted", res.CatalogDeleted,
	)
	return res, nil
}

func runResets(ctx context.Context, tx core.Store, res *ResetResult, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx, tx, res); err != nil {
			return err
		}
	}
	return nil
}

func resetInventory(ctx context.Context, tx core.Store, res *ResetResult) error {
	n, err := tx.DeleteAllInventoryEntries(ctx)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	res.InventoryDeleted = n
	return nil
}

func resetCatalog(ctx context.Context, tx core.Store, res *ResetResult) error {
	n, err := tx.DeleteAllCatalogEntries(ctx)
	if err != nil {
		return fmt.Errorf("delete catalog: %w", err)
	}
	res.CatalogDeleted = n
	return nil
}
