package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
)

// SearchCatalog returns catalog entries whose name, code, brand, range,
// type or barcode contains q, ignoring case. An empty query returns the
// whole catalog. Results are ordered by brand, range and code.
func (s *Service) SearchCatalog(ctx context.Context, q string) ([]CatalogEntry, error) {
	all, err := s.store.ListCatalogEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	q = strings.ToLower(strings.TrimSpace(q))
	out := all
	if q != "" {
		out = make([]CatalogEntry, 0, len(all))
		for _, e := range all {
			if matchesAny(q, e.Name, e.ManufacturerCode, string(e.Brand), e.Range, string(e.Type), e.Barcode) {
				out = append(out, e)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b CatalogEntry) int {
		return cmp.Or(
			cmp.Compare(a.Brand, b.Brand),
			cmp.Compare(a.Range, b.Range),
			cmp.Compare(a.ManufacturerCode, b.ManufacturerCode),
		)
	})
	return out, nil
}

// QuickSearch matches only name and manufacturer code. An empty query
// returns nothing. Results are ordered by name.
func (s *Service) QuickSearch(ctx context.Context, q string) ([]CatalogEntry, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []CatalogEntry{}, nil
	}

	all, err := s.store.ListCatalogEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	out := make([]CatalogEntry, 0)
	for _, e := range all {
		if matchesAny(q, e.Name, e.ManufacturerCode) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b CatalogEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func matchesAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ListInventory returns the entries of one bucket joined with their paints.
// The collection is newest first; the wishlist is ordered by paint name.
func (s *Service) ListInventory(ctx context.Context, status Status) ([]InventoryItem, error) {
	items, err := s.store.ListInventoryEntries(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", status, err)
	}

	if status == StatusWishlist {
		slices.SortStableFunc(items, func(a, b InventoryItem) int {
			return cmp.Compare(a.Paint.Name, b.Paint.Name)
		})
	} else {
		slices.SortStableFunc(items, func(a, b InventoryItem) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return items, nil
}

// PaintStatus reports whether a catalog paint is owned and/or wishlisted.
func (s *Service) PaintStatus(ctx context.Context, catalogID string) (PaintStatus, error) {
	if _, err := s.get(ctx, catalogID); err != nil {
		return PaintStatus{}, err
	}

	entries, err := s.store.ListInventoryForPaint(ctx, catalogID)
	if err != nil {
		return PaintStatus{}, fmt.Errorf("list inventory for %s: %w", catalogID, err)
	}

	st := PaintStatus{CatalogID: catalogID}
	for _, e := range entries {
		switch e.Status {
		case StatusOwned:
			st.InCollection = true
		case StatusWishlist:
			st.InWishlist = true
		}
	}
	return st, nil
}
