// Package memstore is an in-memory core.Store.
//
// A single mutex is held for the whole of WithTx, so transactions are fully
// serialized. Writes inside a transaction push an undo step; when fn fails
// or panics the steps run in reverse and the data is as it was.
package memstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/JonMunkholm/printvault/internal/core"
)

var (
	// ErrDuplicateKey is returned when a write would break a uniqueness rule.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrForeignKey is returned when an inventory entry names no catalog entry.
	ErrForeignKey = errors.New("violates foreign key")
)

// Store is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	data *state
}

var _ core.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{data: newState()}
}

// WithTx runs fn under the store lock and keeps its writes only when fn
// returns nil. Nested WithTx calls on the tx store join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(tx core.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	d := s.data
	d.undo = d.undo[:0]
	d.inTx = true
	committed := false
	defer func() {
		d.inTx = false
		if !committed {
			d.rollback()
		}
		clear(d.undo)
		d.undo = d.undo[:0]
	}()

	if err := fn(d); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) FindCatalogEntry(ctx context.Context, key core.IdentityKey) (*core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.FindCatalogEntry(ctx, key)
}

func (s *Store) GetCatalogEntry(ctx context.Context, id string) (*core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetCatalogEntry(ctx, id)
}

func (s *Store) InsertCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.InsertCatalogEntry(ctx, e)
}

func (s *Store) UpdateCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateCatalogEntry(ctx, e)
}

func (s *Store) ListCatalogEntries(ctx context.Context) ([]core.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListCatalogEntries(ctx)
}

func (s *Store) DeleteAllCatalogEntries(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteAllCatalogEntries(ctx)
}

func (s *Store) FindInventoryEntry(ctx context.Context, key core.IdentityKey, status core.Status) (*core.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.FindInventoryEntry(ctx, key, status)
}

func (s *Store) GetInventoryEntry(ctx context.Context, id string) (*core.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetInventoryEntry(ctx, id)
}

func (s *Store) InsertInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.InsertInventoryEntry(ctx, e)
}

func (s *Store) UpdateInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateInventoryEntry(ctx, e)
}

func (s *Store) DeleteInventoryEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteInventoryEntry(ctx, id)
}

func (s *Store) ListInventoryEntries(ctx context.Context, status core.Status) ([]core.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListInventoryEntries(ctx, status)
}

func (s *Store) ListInventoryForPaint(ctx context.Context, catalogID string) ([]core.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListInventoryForPaint(ctx, catalogID)
}

func (s *Store) DeleteAllInventoryEntries(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteAllInventoryEntries(ctx)
}

// state holds the tables. It is also the core.Store handed to WithTx
// callbacks, which already run under the lock.
type state struct {
	catalog   map[string]core.CatalogEntry
	keys      map[core.IdentityKey]string
	inventory map[string]core.InventoryEntry
	slots     map[slot]string

	inTx bool
	undo []func()
}

// slot identifies the single inventory entry a paint may have per status.
type slot struct {
	catalogID string
	status    core.Status
}

func newState() *state {
	return &state{
		catalog:   make(map[string]core.CatalogEntry),
		keys:      make(map[core.IdentityKey]string),
		inventory: make(map[string]core.InventoryEntry),
		slots:     make(map[slot]string),
	}
}

// record remembers how to reverse a write made inside a transaction.
func (d *state) record(step func()) {
	if d.inTx {
		d.undo = append(d.undo, step)
	}
}

func (d *state) rollback() {
	for i := len(d.undo) - 1; i >= 0; i-- {
		d.undo[i]()
	}
}

func (d *state) WithTx(ctx context.Context, fn func(tx core.Store) error) error {
	return fn(d)
}

func (d *state) FindCatalogEntry(ctx context.Context, key core.IdentityKey) (*core.CatalogEntry, error) {
	id, ok := d.keys[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	e := d.catalog[id]
	return &e, nil
}

func (d *state) GetCatalogEntry(ctx context.Context, id string) (*core.CatalogEntry, error) {
	e, ok := d.catalog[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &e, nil
}

func (d *state) InsertCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	if _, ok := d.catalog[e.ID]; ok {
		return fmt.Errorf("%w: catalog id %s", ErrDuplicateKey, e.ID)
	}
	key := core.KeyOf(e)
	if _, ok := d.keys[key]; ok {
		return fmt.Errorf("%w: catalog key %s", ErrDuplicateKey, key)
	}
	id := e.ID
	d.catalog[id] = *e
	d.keys[key] = id
	d.record(func() {
		delete(d.catalog, id)
		delete(d.keys, key)
	})
	return nil
}

func (d *state) UpdateCatalogEntry(ctx context.Context, e *core.CatalogEntry) error {
	old, ok := d.catalog[e.ID]
	if !ok {
		return core.ErrNotFound
	}
	oldKey, newKey := core.KeyOf(&old), core.KeyOf(e)
	if oldKey != newKey {
		if _, taken := d.keys[newKey]; taken {
			return fmt.Errorf("%w: catalog key %s", ErrDuplicateKey, newKey)
		}
		delete(d.keys, oldKey)
		d.keys[newKey] = e.ID
	}
	d.catalog[e.ID] = *e
	d.record(func() {
		if oldKey != newKey {
			delete(d.keys, newKey)
			d.keys[oldKey] = old.ID
		}
		d.catalog[old.ID] = old
	})
	return nil
}

func (d *state) ListCatalogEntries(ctx context.Context) ([]core.CatalogEntry, error) {
	out := make([]core.CatalogEntry, 0, len(d.catalog))
	for _, e := range d.catalog {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b core.CatalogEntry) int {
		return cmp.Or(
			cmp.Compare(a.Brand, b.Brand),
			cmp.Compare(a.Range, b.Range),
			cmp.Compare(a.ManufacturerCode, b.ManufacturerCode),
		)
	})
	return out, nil
}

// DeleteAllCatalogEntries cascades to inventory.
func (d *state) DeleteAllCatalogEntries(ctx context.Context) (int64, error) {
	n := int64(len(d.catalog))
	catalog, keys, inventory, slots := d.catalog, d.keys, d.inventory, d.slots
	d.catalog = make(map[string]core.CatalogEntry)
	d.keys = make(map[core.IdentityKey]string)
	d.inventory = make(map[string]core.InventoryEntry)
	d.slots = make(map[slot]string)
	d.record(func() {
		d.catalog, d.keys, d.inventory, d.slots = catalog, keys, inventory, slots
	})
	return n, nil
}

func (d *state) FindInventoryEntry(ctx context.Context, key core.IdentityKey, status core.Status) (*core.InventoryEntry, error) {
	catalogID, ok := d.keys[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	id, ok := d.slots[slot{catalogID, status}]
	if !ok {
		return nil, core.ErrNotFound
	}
	e := d.inventory[id]
	return &e, nil
}

func (d *state) GetInventoryEntry(ctx context.Context, id string) (*core.InventoryEntry, error) {
	e, ok := d.inventory[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &e, nil
}

func (d *state) InsertInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	if _, ok := d.catalog[e.CatalogID]; !ok {
		return fmt.Errorf("%w: catalog id %s", ErrForeignKey, e.CatalogID)
	}
	if _, ok := d.inventory[e.ID]; ok {
		return fmt.Errorf("%w: inventory id %s", ErrDuplicateKey, e.ID)
	}
	sl := slot{e.CatalogID, e.Status}
	if _, taken := d.slots[sl]; taken {
		return fmt.Errorf("%w: %s entry for catalog id %s", ErrDuplicateKey, e.Status, e.CatalogID)
	}
	id := e.ID
	d.inventory[id] = *e
	d.slots[sl] = id
	d.record(func() {
		delete(d.inventory, id)
		delete(d.slots, sl)
	})
	return nil
}

func (d *state) UpdateInventoryEntry(ctx context.Context, e *core.InventoryEntry) error {
	old, ok := d.inventory[e.ID]
	if !ok {
		return core.ErrNotFound
	}
	if old.CatalogID != e.CatalogID || old.Status != e.Status {
		return fmt.Errorf("inventory entry %s: catalog id and status are immutable", e.ID)
	}
	d.inventory[e.ID] = *e
	d.record(func() { d.inventory[old.ID] = old })
	return nil
}

func (d *state) DeleteInventoryEntry(ctx context.Context, id string) error {
	old, ok := d.inventory[id]
	if !ok {
		return core.ErrNotFound
	}
	sl := slot{old.CatalogID, old.Status}
	delete(d.inventory, id)
	delete(d.slots, sl)
	d.record(func() {
		d.inventory[id] = old
		d.slots[sl] = id
	})
	return nil
}

func (d *state) ListInventoryEntries(ctx context.Context, status core.Status) ([]core.InventoryItem, error) {
	out := make([]core.InventoryItem, 0)
	for _, e := range d.inventory {
		if e.Status != status {
			continue
		}
		out = append(out, core.InventoryItem{InventoryEntry: e, Paint: d.catalog[e.CatalogID]})
	}
	slices.SortFunc(out, func(a, b core.InventoryItem) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (d *state) ListInventoryForPaint(ctx context.Context, catalogID string) ([]core.InventoryEntry, error) {
	out := make([]core.InventoryEntry, 0)
	for _, e := range d.inventory {
		if e.CatalogID == catalogID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b core.InventoryEntry) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return out, nil
}

func (d *state) DeleteAllInventoryEntries(ctx context.Context) (int64, error) {
	n := int64(len(d.inventory))
	inventory, slots := d.inventory, d.slots
	d.inventory = make(map[string]core.InventoryEntry)
	d.slots = make(map[slot]string)
	d.record(func() { d.inventory, d.slots = inventory, slots })
	return n, nil
}
