package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MergePolicy decides how an upsert treats an existing entry's fields.
type MergePolicy int

const (
	// PreserveBarcode is used by manual adds. Type and name are refreshed;
	// a barcode is only filled in when none is stored yet.
	PreserveBarcode MergePolicy = iota

	// RefreshBarcode is used by bulk import. All descriptive fields are
	// overwritten, and any non-empty barcode replaces the stored one.
	RefreshBarcode
)

func (p MergePolicy) String() string {
	if p == RefreshBarcode {
		return "refresh_barcode"
	}
	return "preserve_barcode"
}

// Catalog resolves paints by identity key. It never inserts an entry whose
// key is already present in the store.
type Catalog struct {
	now func() time.Time
}

// NewCatalog creates a Catalog using the wall clock.
func NewCatalog() *Catalog {
	return &Catalog{now: time.Now}
}

// UpsertManual resolves a paint for the single-add flows.
func (c *Catalog) UpsertManual(ctx context.Context, st Store, in PaintInput) (*CatalogEntry, error) {
	return c.Upsert(ctx, st, in, PreserveBarcode)
}

// UpsertImported resolves a paint for an import row.
func (c *Catalog) UpsertImported(ctx context.Context, st Store, in PaintInput) (*CatalogEntry, error) {
	return c.Upsert(ctx, st, in, RefreshBarcode)
}

// Upsert finds the entry for in's identity key and merges in according to
// policy, or creates it. The resolved entry is returned.
func (c *Catalog) Upsert(ctx context.Context, st Store, in PaintInput, policy MergePolicy) (*CatalogEntry, error) {
	in.ManufacturerCode = NormalizeCode(in.ManufacturerCode)
	key := in.Key()

	existing, err := st.FindCatalogEntry(ctx, key)
	switch {
	case err == nil:
		merge(existing, in, policy)
		existing.UpdatedAt = c.now()
		if err := st.UpdateCatalogEntry(ctx, existing); err != nil {
			return nil, fmt.Errorf("update catalog entry %s: %w", key, err)
		}
		return existing, nil

	case errors.Is(err, ErrNotFound):
		now := c.now()
		entry := &CatalogEntry{
			ID:               uuid.New().String(),
			Brand:            in.Brand,
			Range:            in.Range,
			ManufacturerCode: in.ManufacturerCode,
			Type:             in.Type,
			Name:             in.Name,
			Barcode:          in.Barcode,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := st.InsertCatalogEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("insert catalog entry %s: %w", key, err)
		}
		return entry, nil

	default:
		return nil, fmt.Errorf("find catalog entry %s: %w", key, err)
	}
}

func merge(e *CatalogEntry, in PaintInput, policy MergePolicy) {
	switch policy {
	case RefreshBarcode:
		e.Brand = in.Brand
		e.Range = in.Range
		e.ManufacturerCode = in.ManufacturerCode
		e.Type = in.Type
		e.Name = in.Name
		if in.Barcode != "" {
			e.Barcode = in.Barcode
		}
	default:
		e.Type = in.Type
		e.Name = in.Name
		if e.Barcode == "" && in.Barcode != "" {
			e.Barcode = in.Barcode
		}
	}
}
