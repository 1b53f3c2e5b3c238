package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/printvault/internal/logging"
)

// AddPaintRequest is the manual add form as raw text. Brand, type and
// status are decoded here; unknown labels fall back to Other and owned.
type AddPaintRequest struct {
	Brand            string `json:"brand"`
	Range            string `json:"range"`
	Type             string `json:"type"`
	ManufacturerCode string `json:"manufacturerCode"`
	Name             string `json:"name"`
	Barcode          string `json:"barcode"`
	Status           string `json:"status"`
	Quantity         int    `json:"quantity"`
	Notes            string `json:"notes"`
}

// AddPaintResult is the resolved paint and what happened to its entry.
type AddPaintResult struct {
	Paint   *CatalogEntry `json:"paint"`
	Outcome AddOutcome    `json:"result"`
}

// normalize trims the form and decodes its tags. A zero quantity means the
// field was left out and defaults to 1.
func (req AddPaintRequest) normalize() (PaintInput, Status, AddOptions, error) {
	brand, _ := ParseBrand(strings.TrimSpace(req.Brand))
	paintType, _ := ParsePaintType(strings.TrimSpace(req.Type))
	status, _ := ParseStatus(strings.TrimSpace(req.Status))

	in := PaintInput{
		Brand:            brand,
		Range:            strings.TrimSpace(req.Range),
		Type:             paintType,
		ManufacturerCode: NormalizeCode(strings.TrimSpace(req.ManufacturerCode)),
		Name:             strings.TrimSpace(req.Name),
		Barcode:          strings.TrimSpace(req.Barcode),
	}

	var missing []string
	if in.Range == "" {
		missing = append(missing, "range")
	}
	if in.ManufacturerCode == "" {
		missing = append(missing, "manufacturerCode")
	}
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return in, status, AddOptions{}, fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	return in, status, AddOptions{Quantity: qty, Notes: strings.TrimSpace(req.Notes)}, nil
}

// AddPaint resolves the paint with the barcode-preserving policy and adds
// it to the requested bucket.
func (s *Service) AddPaint(ctx context.Context, req AddPaintRequest) (AddPaintResult, error) {
	in, status, opts, err := req.normalize()
	if err != nil {
		return AddPaintResult{}, err
	}
	if opts.Quantity < MinManualQuantity || opts.Quantity > MaxManualQuantity {
		return AddPaintResult{}, fmt.Errorf("%w: %d not in %d..%d",
			ErrInvalidQuantity, opts.Quantity, MinManualQuantity, MaxManualQuantity)
	}

	var result AddPaintResult
	err = s.store.WithTx(ctx, func(tx Store) error {
		paint, err := s.catalog.UpsertManual(ctx, tx, in)
		if err != nil {
			return err
		}
		outcome, err := s.reconciler.Add(ctx, tx, paint, status, opts)
		if err != nil {
			return err
		}
		result = AddPaintResult{Paint: paint, Outcome: outcome}
		return nil
	})
	if err != nil {
		return AddPaintResult{}, fmt.Errorf("add paint %s: %w", in.Key(), err)
	}

	logging.FromContext(ctx).Info("paint added",
		"paint", in.Key().String(),
		"status", status,
		"outcome", result.Outcome.Kind.String(),
		"quantity", result.Outcome.Quantity,
	)
	return result, nil
}

// QuickAdd adds one unit of an existing catalog paint to status.
func (s *Service) QuickAdd(ctx context.Context, catalogID string, status Status) (AddOutcome, error) {
	var outcome AddOutcome
	err := s.store.WithTx(ctx, func(tx Store) error {
		paint, err := tx.GetCatalogEntry(ctx, catalogID)
		if err != nil {
			return fmt.Errorf("get catalog entry %s: %w", catalogID, err)
		}
		outcome, err = s.reconciler.AddOrIncrement(ctx, tx, paint, status)
		return err
	})
	if err != nil {
		return AddOutcome{}, fmt.Errorf("quick add: %w", err)
	}

	logging.FromContext(ctx).Info("paint quick-added",
		"catalog_id", catalogID,
		"status", status,
		"outcome", outcome.Kind.String(),
		"quantity", outcome.Quantity,
	)
	return outcome, nil
}

// MarkBought moves a wishlist entry into the owned bucket.
func (s *Service) MarkBought(ctx context.Context, wishlistEntryID string) (AddOutcome, error) {
	var outcome AddOutcome
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		outcome, err = s.reconciler.MoveToOwned(ctx, tx, wishlistEntryID)
		return err
	})
	if err != nil {
		return AddOutcome{}, fmt.Errorf("mark bought: %w", err)
	}

	logging.FromContext(ctx).Info("wishlist entry bought",
		"entry_id", wishlistEntryID,
		"owned_quantity", outcome.Quantity,
	)
	return outcome, nil
}

// RemoveInventoryEntry deletes one inventory entry.
func (s *Service) RemoveInventoryEntry(ctx context.Context, id string) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		return s.reconciler.Remove(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("remove inventory entry: %w", err)
	}

	logging.FromContext(ctx).Info("inventory entry removed", "entry_id", id)
	return nil
}
