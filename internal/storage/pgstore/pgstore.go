// Package pgstore is the PostgreSQL core.Store.
//
// WithTx runs in a SERIALIZABLE transaction. Unique constraints on the
// identity key and on (catalog_id, status) back up the reconciler's
// find-before-insert, so concurrent adds fail rather than duplicate.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/storage/pgstore/migrations"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PoolOptions tunes the connection pool. Zero values keep pgx defaults.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store implements core.Store. A Store returned by New owns the pool; the
// one passed to WithTx callbacks is bound to a transaction.
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
}

var _ core.Store = (*Store)(nil)

// Open connects to url, applies migrations and returns a pool-backed Store.
func Open(ctx context.Context, url string, opts PoolOptions) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return New(pool), nil
}

// New wraps an existing pool. It does not run migrations.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// gooseUp is swapped out in tests.
var gooseUp = func(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if err := gooseUp(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")
	return nil
}

// Close releases the pool. It is a no-op on a transaction-bound Store.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// WithTx runs fn in a serializable transaction. Called on a
// transaction-bound Store it reuses the open transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

// mapError turns constraint violations into memorable errors and
// pgx.ErrNoRows into core.ErrNotFound.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("duplicate key (%s): %w", pgErr.ConstraintName, err)
		case "23503":
			return fmt.Errorf("violates foreign key (%s): %w", pgErr.ConstraintName, err)
		case "40001":
			return fmt.Errorf("could not serialize access: %w", err)
		}
	}
	return err
}

const catalogColumns = `id::text, brand, paint_range, manufacturer_code, type, name, barcode, created_at, updated_at`

func scanCatalog(row pgx.Row) (*core.CatalogEntry, error) {
	var (
		e       core.CatalogEntry
		barcode pgtype.Text
	)
	err := row.Scan(&e.ID, &e.Brand, &e.Range, &e.ManufacturerCode, &e.Type, &e.Name,
		&barcode, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	e.Barcode = barcode.String
	return &e, nil
}

// validID reports whether id can be compared to a uuid column. Anything
// else cannot match a row, so lookups short-circuit to core.ErrNotFound.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func nullable(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func (s *Store) FindCatalogEntry(ctx context.Context, key core.IdentityKey) (*core.CatalogEntry, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+catalogColumns+` FROM catalog_entries
		 WHERE brand = $1 AND paint_range = $2 AND manufacturer_code = $3`,
		key.Brand, key.Range, key.ManufacturerCode)
	return scanCatalog(row)
}

func (s *Store) GetCatalogEntry(ctx context.Context, id string) (*core.CatalogEntry, error) {
	if !validID(id) {
		return nil, core.ErrNotFound
	}
	row := s.db.QueryRow(ctx,
		`SELECT `+catalogColumns+` FROM catalog_entries WHERE id = $1`, id)
	return scanCatalog(row)
}

func (s *Store) InsertCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO catalog_entries
		   (id, brand, paint_range, manufacturer_code, type, name, barcode, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Brand, e.Range, e.ManufacturerCode, e.Type, e.Name, nullable(e.Barcode),
		e.CreatedAt, e.UpdatedAt)
	return mapError(err)
}

func (s *Store) UpdateCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE catalog_entries
		 SET brand = $2, paint_range = $3, manufacturer_code = $4, type = $5, name = $6,
		     barcode = $7, updated_at = $8
		 WHERE id = $1`,
		e.ID, e.Brand, e.Range, e.ManufacturerCode, e.Type, e.Name, nullable(e.Barcode), e.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListCatalogEntries(ctx context.Context) ([]core.CatalogEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_entries
		 ORDER BY brand, paint_range, manufacturer_code`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]core.CatalogEntry, 0)
	for rows.Next() {
		e, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, mapError(rows.Err())
}

// DeleteAllCatalogEntries relies on ON DELETE CASCADE for inventory.
func (s *Store) DeleteAllCatalogEntries(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM catalog_entries`)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

const inventoryColumns = `i.id::text, i.catalog_id::text, i.status, i.quantity, i.notes, i.created_at`

func scanInventory(row pgx.Row, extra ...any) (*core.InventoryEntry, error) {
	var (
		e     core.InventoryEntry
		notes pgtype.Text
	)
	dest := append([]any{&e.ID, &e.CatalogID, &e.Status, &e.Quantity, &notes, &e.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	e.Notes = notes.String
	return &e, nil
}

func (s *Store) FindInventoryEntry(ctx context.Context, key core.IdentityKey, status core.Status) (*core.InventoryEntry, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+inventoryColumns+`
		 FROM inventory_entries i
		 JOIN catalog_entries c ON c.id = i.catalog_id
		 WHERE c.brand = $1 AND c.paint_range = $2 AND c.manufacturer_code = $3 AND i.status = $4`,
		key.Brand, key.Range, key.ManufacturerCode, status)
	return scanInventory(row)
}

func (s *Store) GetInventoryEntry(ctx context.Context, id string) (*core.InventoryEntry, error) {
	if !validID(id) {
		return nil, core.ErrNotFound
	}
	row := s.db.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_entries i WHERE i.id = $1`, id)
	return scanInventory(row)
}

func (s *Store) InsertInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO inventory_entries (id, catalog_id, status, quantity, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.CatalogID, e.Status, e.Quantity, nullable(e.Notes), e.CreatedAt)
	return mapError(err)
}

// UpdateInventoryEntry writes quantity and notes; status, paint and
// creation time never change.
func (s *Store) UpdateInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE inventory_entries SET quantity = $2, notes = $3 WHERE id = $1`,
		e.ID, e.Quantity, nullable(e.Notes))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteInventoryEntry(ctx context.Context, id string) error {
	if !validID(id) {
		return core.ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM inventory_entries WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListInventoryEntries(ctx context.Context, status core.Status) ([]core.InventoryItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+inventoryColumns+`,
		        c.id::text, c.brand, c.paint_range, c.manufacturer_code, c.type, c.name, c.barcode,
		        c.created_at, c.updated_at
		 FROM inventory_entries i
		 JOIN catalog_entries c ON c.id = i.catalog_id
		 WHERE i.status = $1
		 ORDER BY i.created_at DESC, i.id`,
		status)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]core.InventoryItem, 0)
	for rows.Next() {
		var (
			p       core.CatalogEntry
			barcode pgtype.Text
		)
		e, err := scanInventory(rows,
			&p.ID, &p.Brand, &p.Range, &p.ManufacturerCode, &p.Type, &p.Name, &barcode,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		p.Barcode = barcode.String
		out = append(out, core.InventoryItem{InventoryEntry: *e, Paint: p})
	}
	return out, mapError(rows.Err())
}

func (s *Store) ListInventoryForPaint(ctx context.Context, catalogID string) ([]core.InventoryEntry, error) {
	if !validID(catalogID) {
		return []core.InventoryEntry{}, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_entries i
		 WHERE i.catalog_id = $1 ORDER BY i.status`, catalogID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]core.InventoryEntry, 0)
	for rows.Next() {
		e, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, mapError(rows.Err())
}

func (s *Store) DeleteAllInventoryEntries(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM inventory_entries`)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
