package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/printvault/internal/logging"
	"github.com/google/uuid"
)

// ImportCSV reads an uploaded file and merges it into the catalog.
//
// The run holds an import slot for its whole duration and fails with
// ErrTooManyImports when none frees up. Bodies over the configured size
// fail with ErrFileTooLarge before any row is read.
func (s *Service) ImportCSV(ctx context.Context, fileName string, r io.Reader) (ImportReport, error) {
	ctx, logger := s.importLogger(ctx, fileName)

	if err := s.acquireImportSlot(ctx); err != nil {
		logger.Warn("import rejected", "error", err)
		return ImportReport{}, err
	}
	defer s.limiter.Release()

	text, err := ReadImportText(r, s.maxImportSize)
	if err != nil {
		logger.Warn("import file unreadable", "error", err)
		return ImportReport{}, err
	}

	report, err := s.runImport(ctx, text)
	if err != nil {
		return report, fmt.Errorf("import %s: %w", fileName, err)
	}
	return report, nil
}

// ImportText merges already-decoded text. It shares the limiter and the
// logging of ImportCSV but skips the size check.
func (s *Service) ImportText(ctx context.Context, text string) (ImportReport, error) {
	ctx, logger := s.importLogger(ctx, "")

	if err := s.acquireImportSlot(ctx); err != nil {
		logger.Warn("import rejected", "error", err)
		return ImportReport{}, err
	}
	defer s.limiter.Release()

	return s.runImport(ctx, text)
}

// importLogger tags a logger with a fresh import id and stores it in ctx
// so row-level logs carry the same fields.
func (s *Service) importLogger(ctx context.Context, fileName string) (context.Context, *slog.Logger) {
	args := []any{
		"import_id", uuid.New().String(),
		"source", SourceFromContext(ctx),
	}
	if fileName != "" {
		args = append(args, "file", fileName)
	}
	if ip := ClientIPFromContext(ctx); ip != "" {
		args = append(args, "client_ip", ip)
	}

	logger := logging.WithFields(ctx, args...)
	return logging.NewContext(ctx, logger), logger
}

// acquireImportSlot waits at most importTimeout for a free slot.
func (s *Service) acquireImportSlot(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()
	return s.limiter.Acquire(ctx)
}

// runImport applies text row by row. It ignores cancellation of ctx so a
// started file is always applied in full.
func (s *Service) runImport(ctx context.Context, text string) (ImportReport, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	logger.Info("import started", "bytes", len(text))

	report, err := s.importer.Import(context.WithoutCancel(ctx), s.store, text)
	if err != nil {
		logger.Error("import failed",
			"error", err,
			"paints_upserted", report.PaintsUpserted,
			"collection_updated", report.CollectionUpdated,
			"duration", time.Since(start),
		)
		return report, err
	}

	logger.Info("import completed",
		"paints_upserted", report.PaintsUpserted,
		"collection_updated", report.CollectionUpdated,
		"duration", time.Since(start),
	)
	return report, nil
}

// SampleCSVFileName is offered as the download name for SampleCSV.
const SampleCSVFileName = "PrintVault_Sample.csv"

const sampleCSV = "brand,range,type,manufacturerCode,name,barcode,collectionQuantity\n" +
	"Vallejo,Game Color,Base,72.001,Dead White,,1\n" +
	"AK Interactive,3rd Gen,Acrylic Color,AK11187,Strong Dark Blue,,1\n"

// SampleCSV returns an import file with every supported column.
func SampleCSV() string {
	return sampleCSV
}
