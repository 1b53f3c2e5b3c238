package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/printvault/internal/logging"
)

// Import column names, lower-cased as they are matched.
const (
	ColumnBrand              = "brand"
	ColumnRange              = "range"
	ColumnType               = "type"
	ColumnManufacturerCode   = "manufacturercode"
	ColumnName               = "name"
	ColumnBarcode            = "barcode"
	ColumnCollectionQuantity = "collectionquantity"
)

// RequiredColumns must all be present in an import header, in any order
// and any letter case.
var RequiredColumns = []string{
	ColumnBrand, ColumnRange, ColumnType, ColumnManufacturerCode, ColumnName,
}

// Importer merges delimited catalog rows into the store.
type Importer struct {
	catalog    *Catalog
	reconciler *Reconciler
}

// NewImporter creates an Importer that resolves paints through catalog and
// writes owned quantities through reconciler.
func NewImporter(catalog *Catalog, reconciler *Reconciler) *Importer {
	return &Importer{catalog: catalog, reconciler: reconciler}
}

// importRow is one data line after field extraction.
type importRow struct {
	paint    PaintInput
	quantity int // 0 when absent or unusable
}

// Import parses text and applies every data row in file order.
//
// A header missing a required column fails with *MissingColumnError before
// anything is written. Row defects are recovered: unknown brand or type
// text falls back to Other and a bad quantity (not an integer, not
// positive, or beyond int32) only skips the quantity step. Each row is
// applied in its own transaction on st, so a storage failure stops the run
// but leaves earlier rows applied; the returned report counts those rows.
func (im *Importer) Import(ctx context.Context, st Store, text string) (ImportReport, error) {
	var report ImportReport

	lines := SplitNumberedLines(text)
	if len(lines) == 0 {
		return report, nil
	}

	headerLine := StripBOM(lines[0].Text)
	delim := DetectDelimiter(headerLine)
	index := MakeHeaderIndex(ParseLine(headerLine, delim))

	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return report, &MissingColumnError{Column: col}
		}
	}

	logger := logging.FromContext(ctx)

	for _, line := range lines[1:] {
		row := im.readRow(ctx, index, ParseLine(line.Text, delim), line.Number)

		wroteQuantity := false
		err := st.WithTx(ctx, func(tx Store) error {
			wroteQuantity = false

			paint, err := im.catalog.UpsertImported(ctx, tx, row.paint)
			if err != nil {
				return err
			}
			if row.quantity > 0 {
				ok, err := im.reconciler.SetOwnedQuantityExact(ctx, tx, paint, row.quantity)
				if err != nil {
					return err
				}
				wroteQuantity = ok
			}
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("import line %d: %w", line.Number, err)
		}

		report.PaintsUpserted++
		if wroteQuantity {
			report.CollectionUpdated++
		}
	}

	logger.Debug("import applied",
		"paints_upserted", report.PaintsUpserted,
		"collection_updated", report.CollectionUpdated,
		"delimiter", string(delim),
	)

	return report, nil
}

// readRow extracts and decodes the fields of one data line. Defects are
// logged at debug level and never returned.
func (im *Importer) readRow(ctx context.Context, index HeaderIndex, fields []string, lineNo int) importRow {
	logger := logging.FromContext(ctx)

	brandRaw := index.Value(fields, ColumnBrand)
	typeRaw := index.Value(fields, ColumnType)

	brand, ok := ParseBrand(brandRaw)
	if !ok {
		logger.Debug("unknown brand, using Other", "line", lineNo, "brand", brandRaw)
	}
	paintType, ok := ParsePaintType(typeRaw)
	if !ok {
		logger.Debug("unknown type, using Other", "line", lineNo, "type", typeRaw)
	}

	row := importRow{
		paint: PaintInput{
			Brand:            brand,
			Range:            index.Value(fields, ColumnRange),
			Type:             paintType,
			ManufacturerCode: NormalizeCode(index.Value(fields, ColumnManufacturerCode)),
			Name:             index.Value(fields, ColumnName),
		},
	}
	if barcode, ok := index.Optional(fields, ColumnBarcode); ok {
		row.paint.Barcode = barcode
	}

	if raw, ok := index.Optional(fields, ColumnCollectionQuantity); ok {
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			logger.Debug("skipping unparseable quantity", "line", lineNo, "value", raw)
		case qty <= 0:
			logger.Debug("skipping non-positive quantity", "line", lineNo, "value", qty)
		case qty > math.MaxInt32:
			logger.Debug("skipping out of range quantity", "line", lineNo, "value", qty)
		default:
			row.quantity = qty
		}
	}

	return row
}
