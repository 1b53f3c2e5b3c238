package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinManualQuantity and MaxManualQuantity bound the quantity a user can
// enter on the manual add form.
const (
	MinManualQuantity = 1
	MaxManualQuantity = 99
)

// AddOptions carries the form values of the manual add flow. They only
// apply when a new entry is created.
type AddOptions struct {
	Quantity int
	Notes    string
}

// Reconciler maps add, import and move events onto the single inventory
// entry for a (paint, status) pair.
//
// It takes no locks. The Store passed in must be a transaction-bound store
// so lookups and inserts against the same key are serialized.
type Reconciler struct {
	now func() time.Time
}

// NewReconciler creates a Reconciler using the wall clock.
func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// AddOrIncrement adds one unit of paint to the status bucket.
// An existing entry is bumped by one; otherwise a new entry with quantity 1
// is created.
func (r *Reconciler) AddOrIncrement(ctx context.Context, st Store, paint *CatalogEntry, status Status) (AddOutcome, error) {
	return r.Add(ctx, st, paint, status, AddOptions{Quantity: 1})
}

// Add is the manual add path. It dedups exactly like AddOrIncrement: an
// existing entry is bumped by one and keeps its notes and creation time.
// When no entry exists one is created with opts.Quantity and opts.Notes.
func (r *Reconciler) Add(ctx context.Context, st Store, paint *CatalogEntry, status Status, opts AddOptions) (AddOutcome, error) {
	if opts.Quantity < MinManualQuantity || opts.Quantity > MaxManualQuantity {
		return AddOutcome{}, fmt.Errorf("%w: %d not in %d..%d",
			ErrInvalidQuantity, opts.Quantity, MinManualQuantity, MaxManualQuantity)
	}

	key := KeyOf(paint)
	existing, err := st.FindInventoryEntry(ctx, key, status)
	switch {
	case err == nil:
		existing.Quantity++
		if err := st.UpdateInventoryEntry(ctx, existing); err != nil {
			return AddOutcome{}, fmt.Errorf("update %s entry %s: %w", status, key, err)
		}
		return AddOutcome{Kind: Incremented, Quantity: existing.Quantity, Entry: existing}, nil

	case errors.Is(err, ErrNotFound):
		entry := r.newEntry(paint, status, opts.Quantity, opts.Notes)
		if err := st.InsertInventoryEntry(ctx, entry); err != nil {
			return AddOutcome{}, fmt.Errorf("insert %s entry %s: %w", status, key, err)
		}
		return AddOutcome{Kind: AddedNew, Quantity: entry.Quantity, Entry: entry}, nil

	default:
		return AddOutcome{}, fmt.Errorf("find %s entry %s: %w", status, key, err)
	}
}

// SetOwnedQuantityExact overwrites the owned quantity of paint, creating
// the owned entry if needed. It reports whether an entry was written.
func (r *Reconciler) SetOwnedQuantityExact(ctx context.Context, st Store, paint *CatalogEntry, quantity int) (bool, error) {
	if quantity < 1 {
		return false, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	key := KeyOf(paint)
	existing, err := st.FindInventoryEntry(ctx, key, StatusOwned)
	switch {
	case err == nil:
		existing.Quantity = quantity
		if err := st.UpdateInventoryEntry(ctx, existing); err != nil {
			return false, fmt.Errorf("update owned entry %s: %w", key, err)
		}
		return true, nil

	case errors.Is(err, ErrNotFound):
		if err := st.InsertInventoryEntry(ctx, r.newEntry(paint, StatusOwned, quantity, "")); err != nil {
			return false, fmt.Errorf("insert owned entry %s: %w", key, err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("find owned entry %s: %w", key, err)
	}
}

// MoveToOwned handles "bought it": the wishlist entry is removed and one
// unit is added to the owned bucket of the same paint.
func (r *Reconciler) MoveToOwned(ctx context.Context, st Store, wishlistEntryID string) (AddOutcome, error) {
	entry, err := st.GetInventoryEntry(ctx, wishlistEntryID)
	if err != nil {
		return AddOutcome{}, fmt.Errorf("get inventory entry %s: %w", wishlistEntryID, err)
	}
	if entry.Status != StatusWishlist {
		return AddOutcome{}, fmt.Errorf("%w: entry %s is %s", ErrWrongStatus, entry.ID, entry.Status)
	}

	paint, err := st.GetCatalogEntry(ctx, entry.CatalogID)
	if err != nil {
		return AddOutcome{}, fmt.Errorf("get catalog entry %s: %w", entry.CatalogID, err)
	}

	if err := st.DeleteInventoryEntry(ctx, entry.ID); err != nil {
		return AddOutcome{}, fmt.Errorf("delete wishlist entry %s: %w", entry.ID, err)
	}

	return r.AddOrIncrement(ctx, st, paint, StatusOwned)
}

// Remove deletes a single inventory entry.
func (r *Reconciler) Remove(ctx context.Context, st Store, id string) error {
	if err := st.DeleteInventoryEntry(ctx, id); err != nil {
		return fmt.Errorf("delete inventory entry %s: %w", id, err)
	}
	return nil
}

func (r *Reconciler) newEntry(paint *CatalogEntry, status Status, quantity int, notes string) *InventoryEntry {
	return &InventoryEntry{
		ID:        uuid.New().String(),
		CatalogID: paint.ID,
		Status:    status,
		Quantity:  quantity,
		Notes:     notes,
		CreatedAt: r.now(),
	}
}
