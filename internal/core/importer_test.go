package core_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/storage/memstore"
)

const fullHeader = "brand,range,type,manufacturerCode,name,barcode,collectionQuantity"

func newImporter() *core.Importer {
	return core.NewImporter(core.NewCatalog(), core.NewReconciler())
}

func mustImport(t *testing.T, st core.Store, text string) core.ImportReport {
	t.Helper()
	report, err := newImporter().Import(context.Background(), st, text)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return report
}

func ownedQuantity(t *testing.T, st core.Store, key core.IdentityKey) int {
	t.Helper()
	e, err := st.FindInventoryEntry(context.Background(), key, core.StatusOwned)
	if errors.Is(err, core.ErrNotFound) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return e.Quantity
}

var deadWhiteKey = core.NewIdentityKey(core.BrandVallejo, "Game Color", "72.001")

func TestImport_EndToEnd(t *testing.T) {
	st := memstore.New()
	text := fullHeader + "\nVallejo,Game Color,Base,72.001,Dead White,,3\n"

	report := mustImport(t, st, text)
	if report != (core.ImportReport{PaintsUpserted: 1, CollectionUpdated: 1}) {
		t.Errorf("report = %+v, want {1 1}", report)
	}

	paint, err := st.FindCatalogEntry(context.Background(), deadWhiteKey)
	if err != nil {
		t.Fatalf("paint not created: %v", err)
	}
	if paint.Name != "Dead White" || paint.Type != core.TypeBase || paint.Barcode != "" {
		t.Errorf("unexpected paint %+v", paint)
	}
	if got := ownedQuantity(t, st, deadWhiteKey); got != 3 {
		t.Errorf("owned quantity = %d, want 3", got)
	}
}

func TestImport_MissingColumnAbortsBeforeWrites(t *testing.T) {
	st := memstore.New()
	text := "range,type,manufacturerCode,name\nGame Color,Base,72.001,Dead White\n"

	report, err := newImporter().Import(context.Background(), st, text)

	col, ok := core.IsMissingColumn(err)
	if !ok {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if col != "brand" {
		t.Errorf("missing column = %q, want brand", col)
	}
	if report != (core.ImportReport{}) {
		t.Errorf("report = %+v, want zero", report)
	}
	if all, _ := st.ListCatalogEntries(context.Background()); len(all) != 0 {
		t.Errorf("catalog has %d entries after failed import", len(all))
	}
}

func TestImport_EachRequiredColumnIsChecked(t *testing.T) {
	for _, drop := range core.RequiredColumns {
		t.Run(drop, func(t *testing.T) {
			var cols []string
			for _, c := range core.RequiredColumns {
				if c != drop {
					cols = append(cols, c)
				}
			}
			_, err := newImporter().Import(context.Background(), memstore.New(), strings.Join(cols, ","))
			if col, ok := core.IsMissingColumn(err); !ok || col != drop {
				t.Errorf("got (%q, %v), want %q", col, ok, drop)
			}
		})
	}
}

func TestImport_Idempotent(t *testing.T) {
	st := memstore.New()
	text := fullHeader + "\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,8429551720014,2\n" +
		"AK Interactive,3rd Gen,Acrylic Color,AK11187,Strong Dark Blue,,1\n"

	first := mustImport(t, st, text)
	catalogOnce, _ := st.ListCatalogEntries(context.Background())
	ownedOnce, _ := st.ListInventoryEntries(context.Background(), core.StatusOwned)

	second := mustImport(t, st, text)
	catalogTwice, _ := st.ListCatalogEntries(context.Background())
	ownedTwice, _ := st.ListInventoryEntries(context.Background(), core.StatusOwned)

	if first != second {
		t.Errorf("reports differ: %+v vs %+v", first, second)
	}
	if len(catalogOnce) != len(catalogTwice) || len(ownedOnce) != len(ownedTwice) {
		t.Fatalf("entry counts changed: catalog %d->%d, owned %d->%d",
			len(catalogOnce), len(catalogTwice), len(ownedOnce), len(ownedTwice))
	}
	for i := range ownedOnce {
		if ownedOnce[i].ID != ownedTwice[i].ID || ownedOnce[i].Quantity != ownedTwice[i].Quantity {
			t.Errorf("owned entry %d changed: %+v vs %+v", i, ownedOnce[i], ownedTwice[i])
		}
	}
}

func TestImport_NonPositiveQuantityLeavesOwnedUntouched(t *testing.T) {
	st := memstore.New()
	mustImport(t, st, fullHeader+"\nVallejo,Game Color,Base,72.001,Dead White,,3\n")

	for _, qty := range []string{"0", "-2", "lots", "2.5", "3000000000"} {
		report := mustImport(t, st, fullHeader+"\nVallejo,Game Color,Layer,72.001,Dead White v2,,"+qty+"\n")
		if report != (core.ImportReport{PaintsUpserted: 1, CollectionUpdated: 0}) {
			t.Errorf("qty %q: report = %+v, want {1 0}", qty, report)
		}
	}

	if got := ownedQuantity(t, st, deadWhiteKey); got != 3 {
		t.Errorf("owned quantity = %d, want 3", got)
	}
	paint, _ := st.FindCatalogEntry(context.Background(), deadWhiteKey)
	if paint.Name != "Dead White v2" || paint.Type != core.TypeLayer {
		t.Errorf("descriptive fields not refreshed: %+v", paint)
	}
}

func TestImport_QuantityIsSetNotAdded(t *testing.T) {
	st := memstore.New()
	p, err := core.NewCatalog().UpsertManual(context.Background(), st, deadWhite())
	if err != nil {
		t.Fatal(err)
	}
	r := core.NewReconciler()
	for i := 0; i < 4; i++ {
		if _, err := r.AddOrIncrement(context.Background(), st, p, core.StatusOwned); err != nil {
			t.Fatal(err)
		}
	}

	mustImport(t, st, fullHeader+"\nVallejo,Game Color,Base,72.001,Dead White,,2\n")
	if got := ownedQuantity(t, st, deadWhiteKey); got != 2 {
		t.Errorf("owned quantity = %d, want 2", got)
	}
}

func TestImport_LenientRows(t *testing.T) {
	st := memstore.New()
	text := fullHeader + "\n" +
		"Games Workshop,Base,Base,abc-1,Abaddon Black,,1\n" +
		"Vallejo,Game Color,Speedpaint,72.002,Pale Flesh\n" +
		"Citadel\n"

	report := mustImport(t, st, text)
	if report.PaintsUpserted != 3 {
		t.Errorf("PaintsUpserted = %d, want 3", report.PaintsUpserted)
	}
	if report.CollectionUpdated != 1 {
		t.Errorf("CollectionUpdated = %d, want 1", report.CollectionUpdated)
	}

	other, err := st.FindCatalogEntry(context.Background(), core.NewIdentityKey(core.BrandOther, "Base", "ABC-1"))
	if err != nil {
		t.Fatalf("unknown brand should be bucketed as Other: %v", err)
	}
	if other.Name != "Abaddon Black" {
		t.Errorf("name = %q", other.Name)
	}

	pale, err := st.FindCatalogEntry(context.Background(), core.NewIdentityKey(core.BrandVallejo, "Game Color", "72.002"))
	if err != nil {
		t.Fatal(err)
	}
	if pale.Type != core.TypeOther {
		t.Errorf("unknown type should map to Other, got %q", pale.Type)
	}
}

func TestImport_FormatVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "semicolon delimited",
			text: "brand;range;type;manufacturerCode;name;collectionQuantity\nVallejo;Game Color;Base;72.001;Dead White;3\n",
		},
		{
			name: "BOM and CRLF",
			text: "\ufeff" + fullHeader + "\r\nVallejo,Game Color,Base,72.001,Dead White,,3\r\n",
		},
		{
			name: "header case and order",
			text: "NAME,collectionquantity,ManufacturerCode,Type,Range,BRAND\nDead White,3,72.001,Base,Game Color,Vallejo\n",
		},
		{
			name: "padded and quoted fields",
			text: fullHeader + "\n Vallejo , \"Game Color\" ,Base, 72.001 ,\"Dead White\",, 3 \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memstore.New()
			report := mustImport(t, st, tt.text)
			if report != (core.ImportReport{PaintsUpserted: 1, CollectionUpdated: 1}) {
				t.Errorf("report = %+v", report)
			}
			if got := ownedQuantity(t, st, deadWhiteKey); got != 3 {
				t.Errorf("owned quantity = %d, want 3", got)
			}
		})
	}
}

func TestImport_LastRowWins(t *testing.T) {
	st := memstore.New()
	text := fullHeader + "\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,111,2\n" +
		"Vallejo,Game Color,Layer,72.001,Deader White,222,5\n"

	report := mustImport(t, st, text)
	if report.PaintsUpserted != 2 {
		t.Errorf("PaintsUpserted = %d, want 2", report.PaintsUpserted)
	}

	paint, _ := st.FindCatalogEntry(context.Background(), deadWhiteKey)
	if paint.Name != "Deader White" || paint.Barcode != "222" {
		t.Errorf("last row should win, got %+v", paint)
	}
	if got := ownedQuantity(t, st, deadWhiteKey); got != 5 {
		t.Errorf("owned quantity = %d, want 5", got)
	}
}

func TestImport_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\r\n"} {
		report := mustImport(t, memstore.New(), text)
		if report != (core.ImportReport{}) {
			t.Errorf("Import(%q) = %+v, want zero", text, report)
		}
	}
}

// failingStore fails catalog inserts for one manufacturer code.
type failingStore struct {
	*memstore.Store
	failCode string
}

type failingTx struct {
	core.Store
	failCode string
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) WithTx(ctx context.Context, fn func(tx core.Store) error) error {
	return f.Store.WithTx(ctx, func(tx core.Store) error {
		return fn(&failingTx{Store: tx, failCode: f.failCode})
	})
}

func (f *failingTx) InsertCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	if e.ManufacturerCode == f.failCode {
		return errDiskFull
	}
	return f.Store.InsertCatalogEntry(ctx, e)
}

func TestImport_StorageFailureKeepsEarlierRows(t *testing.T) {
	st := &failingStore{Store: memstore.New(), failCode: "72.002"}
	text := fullHeader + "\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,,1\n" +
		"Vallejo,Game Color,Base,72.002,Pale Flesh,,1\n" +
		"Vallejo,Game Color,Base,72.003,Elf Skintone,,1\n"

	report, err := newImporter().Import(context.Background(), st, text)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "import line 3:") {
		t.Errorf("error %q should name line 3", err)
	}
	if report != (core.ImportReport{PaintsUpserted: 1, CollectionUpdated: 1}) {
		t.Errorf("report = %+v, want {1 1}", report)
	}

	all, _ := st.ListCatalogEntries(context.Background())
	if len(all) != 1 || all[0].ManufacturerCode != "72.001" {
		t.Errorf("want only the first row applied, got %+v", all)
	}
}

func TestImport_ErrorLineCountsBlankLines(t *testing.T) {
	st := &failingStore{Store: memstore.New(), failCode: "72.002"}
	text := fullHeader + "\n\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,,1\r\n\r\n" +
		"Vallejo,Game Color,Base,72.002,Pale Flesh,,1\n"

	_, err := newImporter().Import(context.Background(), st, text)
	if err == nil || !strings.Contains(err.Error(), "import line 5:") {
		t.Errorf("expected failure on line 5, got %v", err)
	}
}

func TestImport_QuantityBeyondInt32IsSkipped(t *testing.T) {
	st := memstore.New()
	text := fullHeader + "\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,,3000000000\n" +
		"Vallejo,Game Color,Base,72.002,Pale Flesh,,2147483647\n"

	report := mustImport(t, st, text)
	if report != (core.ImportReport{PaintsUpserted: 2, CollectionUpdated: 1}) {
		t.Errorf("report = %+v, want {2 1}", report)
	}
	if got := ownedQuantity(t, st, deadWhiteKey); got != 0 {
		t.Errorf("owned quantity = %d, want none", got)
	}
	paleFlesh := core.NewIdentityKey(core.BrandVallejo, "Game Color", "72.002")
	if got := ownedQuantity(t, st, paleFlesh); got != math.MaxInt32 {
		t.Errorf("owned quantity = %d, want %d", got, math.MaxInt32)
	}
}
