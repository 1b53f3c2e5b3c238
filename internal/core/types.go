// Package core provides the catalog and inventory reconciliation logic.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"
)

// CatalogEntry is a paint in the shared catalog.
// Inventory entries reference it; it never belongs to one.
type CatalogEntry struct {
	ID               string    `json:"id"`
	Brand            Brand     `json:"brand"`
	Range            string    `json:"range"`
	ManufacturerCode string    `json:"manufacturerCode"`
	Type             PaintType `json:"type"`
	Name             string    `json:"name"`
	Barcode          string    `json:"barcode,omitempty"` // empty means absent
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// InventoryEntry records that the user owns or wants a catalog paint.
type InventoryEntry struct {
	ID        string    `json:"id"`
	CatalogID string    `json:"catalogId"`
	Status    Status    `json:"status"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// InventoryItem is an inventory entry joined with its catalog entry,
// as returned by list queries.
type InventoryItem struct {
	InventoryEntry
	Paint CatalogEntry `json:"paint"`
}

// PaintInput carries the fields used to resolve or create a catalog entry.
type PaintInput struct {
	Brand            Brand
	Range            string
	Type             PaintType
	ManufacturerCode string
	Name             string
	Barcode          string
}

// Key returns the identity key the input resolves to.
func (in PaintInput) Key() IdentityKey {
	return NewIdentityKey(in.Brand, in.Range, in.ManufacturerCode)
}

// ImportReport summarizes one import run. It is not persisted.
type ImportReport struct {
	PaintsUpserted    int `json:"paintsUpserted"`
	CollectionUpdated int `json:"collectionUpdated"`
}

// OutcomeKind says whether an add created a new entry or bumped one.
type OutcomeKind int

const (
	AddedNew OutcomeKind = iota
	Incremented
)

func (k OutcomeKind) String() string {
	if k == Incremented {
		return "incremented"
	}
	return "added_new"
}

// MarshalText renders the kind as its string form in JSON.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AddOutcome is the result of routing an add through the reconciler.
// Quantity is the entry's quantity after the add.
type AddOutcome struct {
	Kind     OutcomeKind     `json:"outcome"`
	Quantity int             `json:"quantity"`
	Entry    *InventoryEntry `json:"entry"`
}

// PaintStatus reports which inventory buckets contain a paint.
type PaintStatus struct {
	CatalogID    string `json:"catalogId"`
	InCollection bool   `json:"inCollection"`
	InWishlist   bool   `json:"inWishlist"`
}

// Store is the persistence collaborator.
//
// Find methods return ErrNotFound when nothing matches. Implementations
// must serialize WithTx calls so that two reconciliations against the same
// identity key cannot both observe "absent" and insert.
type Store interface {
	FindCatalogEntry(ctx context.Context, key IdentityKey) (*CatalogEntry, error)
	GetCatalogEntry(ctx context.Context, id string) (*CatalogEntry, error)
	InsertCatalogEntry(ctx context.Context, e *CatalogEntry) error
	UpdateCatalogEntry(ctx context.Context, e *CatalogEntry) error
	ListCatalogEntries(ctx context.Context) ([]CatalogEntry, error)
	DeleteAllCatalogEntries(ctx context.Context) (int64, error)

	FindInventoryEntry(ctx context.Context, key IdentityKey, status Status) (*InventoryEntry, error)
	GetInventoryEntry(ctx context.Context, id string) (*InventoryEntry, error)
	InsertInventoryEntry(ctx context.Context, e *InventoryEntry) error
	UpdateInventoryEntry(ctx context.Context, e *InventoryEntry) error
	DeleteInventoryEntry(ctx context.Context, id string) error
	ListInventoryEntries(ctx context.Context, status Status) ([]InventoryItem, error)
	ListInventoryForPaint(ctx context.Context, catalogID string) ([]InventoryEntry, error)
	DeleteAllInventoryEntries(ctx context.Context) (int64, error)

	// WithTx runs fn against a store bound to one logical session.
	// Mutations made by fn are committed when it returns nil.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
