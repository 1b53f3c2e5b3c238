package core

import (
	"cmp"
	"context"
	"fmt"
	"time"
)

// DefaultImportTimeout bounds the wait for an import slot. A running
// import is never cut short.
const DefaultImportTimeout = 5 * time.Minute

// ServiceOptions tunes a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	MaxImportSize        int64         // bytes; 0 disables the limit
	MaxConcurrentImports int           // see DefaultMaxConcurrentImports
	ImportWait           time.Duration // see DefaultImportWait
	ImportTimeout        time.Duration // see DefaultImportTimeout
}

// Service is the single entry point for catalog and inventory changes.
// Web handlers and the CLI call it; nothing else writes entries.
type Service struct {
	store      Store
	catalog    *Catalog
	reconciler *Reconciler
	importer   *Importer
	limiter    *ImportLimiter

	maxImportSize int64
	importTimeout time.Duration
}

// NewService creates a new Service over st.
func NewService(st Store, opts ServiceOptions) *Service {
	catalog := NewCatalog()
	reconciler := NewReconciler()

	return &Service{
		store:         st,
		catalog:       catalog,
		reconciler:    reconciler,
		importer:      NewImporter(catalog, reconciler),
		limiter:       NewImportLimiter(opts.MaxConcurrentImports, opts.ImportWait),
		maxImportSize: opts.MaxImportSize,
		importTimeout: cmp.Or(opts.ImportTimeout, DefaultImportTimeout),
	}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// Limiter returns the import limiter, for shutdown draining.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// get loads a catalog entry outside of a transaction.
func (s *Service) get(ctx context.Context, catalogID string) (*CatalogEntry, error) {
	paint, err := s.store.GetCatalogEntry(ctx, catalogID)
	if err != nil {
		return nil, fmt.Errorf("get catalog entry %s: %w", catalogID, err)
	}
	return paint, nil
}
