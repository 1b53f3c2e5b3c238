package core

import "testing"

func TestParseBrand(t *testing.T) {
	tests := []struct {
		raw       string
		want      Brand
		wantMatch bool
	}{
		{"Vallejo", BrandVallejo, true},
		{"AK Interactive", BrandAKInteractive, true},
		{"Other", BrandOther, true},
		{"vallejo", BrandOther, false},
		{"Vallejo ", BrandOther, false},
		{"Games Workshop", BrandOther, false},
		{"", BrandOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseBrand(tt.raw)
			if got != tt.want || ok != tt.wantMatch {
				t.Errorf("ParseBrand(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantMatch)
			}
		})
	}
}

func TestParsePaintType(t *testing.T) {
	tests := []struct {
		raw  string
		want PaintType
	}{
		{"Base", TypeBase},
		{"Acrylic Color", TypeAcrylicColor},
		{"base", TypeOther},
		{"Speedpaint", TypeOther},
	}

	for _, tt := range tests {
		if got, _ := ParsePaintType(tt.raw); got != tt.want {
			t.Errorf("ParsePaintType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw       string
		want      Status
		wantMatch bool
	}{
		{"owned", StatusOwned, true},
		{"wishlist", StatusWishlist, true},
		{"Wishlist", StatusOwned, false},
		{"", StatusOwned, false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		if got != tt.want || ok != tt.wantMatch {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantMatch)
		}
	}
}

func TestIdentityKey(t *testing.T) {
	a := &CatalogEntry{Brand: BrandVallejo, Range: "Game Color", ManufacturerCode: "72.001", Name: "Dead White", Type: TypeBase}
	b := &CatalogEntry{Brand: BrandVallejo, Range: "Game Color", ManufacturerCode: "72.001", Name: "Bone White", Type: TypeLayer, Barcode: "123"}

	if KeyOf(a) != KeyOf(b) {
		t.Error("entries differing only in descriptive fields should share a key")
	}

	if NewIdentityKey(BrandAKInteractive, "3rd Gen", "ak11187") != NewIdentityKey(BrandAKInteractive, "3rd Gen", "AK11187") {
		t.Error("manufacturer code should be compared upper-cased")
	}

	if NewIdentityKey(BrandVallejo, "Game Color", "72.001") == NewIdentityKey(BrandVallejo, "Game Color ", "72.001") {
		t.Error("range must match exactly; trimming is the caller's job")
	}

	if NewIdentityKey(BrandVallejo, "Game Color", "72.001") == NewIdentityKey(BrandCitadel, "Game Color", "72.001") {
		t.Error("different brands must not share a key")
	}

	seen := map[IdentityKey]bool{KeyOf(a): true}
	if !seen[KeyOf(b)] {
		t.Error("key should work as a map key")
	}
}

func TestIdentityKeyString(t *testing.T) {
	k := NewIdentityKey(BrandVallejo, "Game Color", "72.001")
	if got, want := k.String(), "Vallejo/Game Color/72.001"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
