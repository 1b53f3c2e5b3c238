// Package core provides the catalog identity and inventory reconciliation
// engine behind PrintVault.
//
// The package has no transport or storage dependencies. Persistence is a
// [Store] supplied by the caller; web handlers and the CLI reach the engine
// only through [Service].
//
// # Identity
//
// Two catalog entries are the same paint when their [IdentityKey]
// (brand, range, manufacturer code) is equal. The code is upper-cased on
// write; the range is matched exactly after the caller trims it.
//
// # Writes
//
//   - [Catalog] upserts paints by identity key with one of two merge
//     policies: [PreserveBarcode] for manual adds and [RefreshBarcode]
//     for imports.
//   - [Reconciler] keeps at most one inventory entry per (paint, status)
//     and either bumps its quantity or sets it exactly.
//   - [Importer] drives the delimited parser and applies each row in its
//     own transaction.
//
// # Import format
//
// Line-oriented delimited text, comma or semicolon, with optional quoting
// and a header naming at least brand, range, type, manufacturerCode and
// name. Optional columns are barcode and collectionQuantity. A missing
// required column fails with [*MissingColumnError] before any write; row
// defects are recovered silently.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Codes are grouped as DB (storage), VAL (input), FILE (import files),
// IMP (import runs and lookups) and RATE (throttling).
package core
