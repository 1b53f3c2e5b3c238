package core

import "strings"

// Brand is a paint manufacturer tag. Text that matches no known label
// decodes to BrandOther.
type Brand string

const (
	BrandVallejo       Brand = "Vallejo"
	BrandCitadel       Brand = "Citadel"
	BrandArmyPainter   Brand = "Army Painter"
	BrandAKInteractive Brand = "AK Interactive"
	BrandScale75       Brand = "Scale75"
	BrandTwoThinCoats  Brand = "Two Thin Coats"
	BrandProAcryl      Brand = "Pro Acryl"
	BrandMonument      Brand = "Monument"
	BrandReaper        Brand = "Reaper"
	BrandTamiya        Brand = "Tamiya"
	BrandOther         Brand = "Other"
)

// Brands lists every brand tag in display order, BrandOther last.
var Brands = []Brand{
	BrandVallejo, BrandCitadel, BrandArmyPainter, BrandAKInteractive,
	BrandScale75, BrandTwoThinCoats, BrandProAcryl, BrandMonument,
	BrandReaper, BrandTamiya, BrandOther,
}

// ParseBrand decodes raw text by exact match against the known labels.
// The second result is false when raw fell back to BrandOther without
// being the literal "Other" label.
func ParseBrand(raw string) (Brand, bool) {
	for _, b := range Brands {
		if string(b) == raw {
			return b, true
		}
	}
	return BrandOther, false
}

// PaintType is the paint formulation tag. Unknown text decodes to TypeOther.
type PaintType string

const (
	TypeBase         PaintType = "Base"
	TypeLayer        PaintType = "Layer"
	TypeShade        PaintType = "Shade"
	TypeContrast     PaintType = "Contrast"
	TypeDry          PaintType = "Dry"
	TypeTechnical    PaintType = "Technical"
	TypeMetallic     PaintType = "Metallic"
	TypeWash         PaintType = "Wash"
	TypeInk          PaintType = "Ink"
	TypePrimer       PaintType = "Primer"
	TypeAir          PaintType = "Air"
	TypeAcrylicColor PaintType = "Acrylic Color"
	TypeOther        PaintType = "Other"
)

// PaintTypes lists every type tag in display order, TypeOther last.
var PaintTypes = []PaintType{
	TypeBase, TypeLayer, TypeShade, TypeContrast, TypeDry, TypeTechnical,
	TypeMetallic, TypeWash, TypeInk, TypePrimer, TypeAir, TypeAcrylicColor,
	TypeOther,
}

// ParsePaintType decodes raw text by exact match against the known labels.
func ParsePaintType(raw string) (PaintType, bool) {
	for _, t := range PaintTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return TypeOther, false
}

// Status is the inventory bucket an entry belongs to.
type Status string

const (
	StatusOwned    Status = "owned"
	StatusWishlist Status = "wishlist"
)

// Title returns the display label for the status.
func (s Status) Title() string {
	switch s {
	case StatusWishlist:
		return "Wishlist"
	default:
		return "Owned"
	}
}

// ParseStatus decodes raw status text. Anything unrecognized is treated as
// owned, so the second result reports whether raw was an exact match.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusOwned:
		return StatusOwned, true
	case StatusWishlist:
		return StatusWishlist, true
	default:
		return StatusOwned, false
	}
}

// IdentityKey decides whether two catalog entries are the same paint.
// It is comparable and safe to use as a map key.
//
// Range is matched exactly; callers trim it before building a key.
// ManufacturerCode is compared after upper-casing.
type IdentityKey struct {
	Brand            Brand
	Range            string
	ManufacturerCode string
}

// NewIdentityKey builds a key, upper-casing the manufacturer code.
func NewIdentityKey(brand Brand, rng, code string) IdentityKey {
	return IdentityKey{
		Brand:            brand,
		Range:            rng,
		ManufacturerCode: NormalizeCode(code),
	}
}

// KeyOf returns the identity key of a catalog entry.
func KeyOf(e *CatalogEntry) IdentityKey {
	return IdentityKey{
		Brand:            e.Brand,
		Range:            e.Range,
		ManufacturerCode: e.ManufacturerCode,
	}
}

// String renders the key for logs.
func (k IdentityKey) String() string {
	return string(k.Brand) + "/" + k.Range + "/" + k.ManufacturerCode
}

// NormalizeCode upper-cases a manufacturer code. It does not trim.
func NormalizeCode(code string) string {
	return strings.ToUpper(code)
}
