package core

import (
	"strings"
	"testing"
)

// ============================================================================
// Line Parsing Benchmarks
// ============================================================================

// BenchmarkParseLine benchmarks field splitting.
// Called for every row during import.
func BenchmarkParseLine(b *testing.B) {
	testCases := []string{
		"Vallejo,Game Color,Base,72.001,Dead White,8429551720014,2",
		`Citadel,Layer,Layer,22-57,"Wazdakka Red, Shade",,`,
		`"AK Interactive";"3rd Gen";"Acrylic Color";"AK11187";"Strong ""Dark"" Blue";;1`,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseLine(tc, DetectDelimiter(tc))
		}
	}
}

// BenchmarkParseLine_Simple benchmarks the common case: no quoting.
func BenchmarkParseLine_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseLine("Vallejo,Game Color,Base,72.001,Dead White,,1", ',')
	}
}

// BenchmarkSplitLines benchmarks line splitting over a large file body.
func BenchmarkSplitLines(b *testing.B) {
	text := "brand,range,type,manufacturerCode,name\r\n" +
		strings.Repeat("Vallejo,Game Color,Base,72.001,Dead White\r\n", 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SplitLines(text)
	}
}

// ============================================================================
// Header Index Benchmarks
// ============================================================================

// BenchmarkMakeHeaderIndex benchmarks header index creation.
// Called once per import to build the column lookup map.
func BenchmarkMakeHeaderIndex(b *testing.B) {
	headers := []string{
		"Brand", "Range", "Type", "ManufacturerCode",
		"Name", "Barcode", "CollectionQuantity",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MakeHeaderIndex(headers)
	}
}

// ============================================================================
// Identity Benchmarks
// ============================================================================

// BenchmarkNewIdentityKey benchmarks key construction, done once per
// reconciled row.
func BenchmarkNewIdentityKey(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewIdentityKey(BrandVallejo, "Game Color", " 72.001a ")
	}
}

// BenchmarkParseBrand benchmarks brand decoding including the Other fallback.
func BenchmarkParseBrand(b *testing.B) {
	testCases := []string{"Vallejo", "army painter", "Scale75", ""}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseBrand(tc)
		}
	}
}

// ============================================================================
// Decoding Benchmarks
// ============================================================================

// BenchmarkDecodeText_UTF8 benchmarks the valid UTF-8 fast path.
func BenchmarkDecodeText_UTF8(b *testing.B) {
	data := []byte(strings.Repeat("Vallejo,Game Color,Base,72.001,Blanco Crème\n", 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DecodeText(data)
	}
}

// BenchmarkDecodeText_Latin1 benchmarks the Latin-1 fallback.
func BenchmarkDecodeText_Latin1(b *testing.B) {
	data := []byte(strings.Repeat("Vallejo,Game Color,Base,72.001,Blanco Cr\xe8me\n", 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DecodeText(data)
	}
}
