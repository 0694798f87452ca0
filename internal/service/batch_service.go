package service

import (
	"bytes"
	"context"
	"fmt"

	"foodrec/internal/cleaninglog"
	"foodrec/internal/config"
	"foodrec/internal/csvexport"
	"foodrec/internal/domain"
)

// BatchReport is the caller-facing summary of one batch run: outcomes
// in input order, the cleaning log, and the token for the stored CSV.
type BatchReport struct {
	Outcomes []domain.BatchOutcome
	Log      []domain.CleaningLogEntry
	ExportID string
	Filename string
}

// BatchService runs batches end to end: reconcile, record the cleaning
// log, and stage a CSV export for download.
type BatchService interface {
	RunBatch(ctx context.Context, queries []domain.Query, label string) (*BatchReport, error)
}

type batchService struct {
	reconciler ReconcileService
	exports    *ExportStore
	cfg        config.BatchConfig
}

// NewBatchService creates a BatchService.
func NewBatchService(reconciler ReconcileService, exports *ExportStore, cfg config.BatchConfig) BatchService {
	return &batchService{reconciler: reconciler, exports: exports, cfg: cfg}
}

func (s *batchService) RunBatch(ctx context.Context, queries []domain.Query, label string) (*BatchReport, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("batch has no rows: %w", domain.ErrInvalidQuery)
	}
	if len(queries) > s.cfg.MaxRows {
		return nil, fmt.Errorf("%d rows exceeds limit of %d: %w", len(queries), s.cfg.MaxRows, domain.ErrBatchTooLarge)
	}

	outcomes := s.reconciler.ReconcileBatch(ctx, queries)

	recorder := cleaninglog.NewRecorder()
	for i, outcome := range outcomes {
		recorder.Record(i, queries[i], outcome)
	}
	entries := recorder.Entries()

	data, err := renderCSV(entries)
	if err != nil {
		return nil, fmt.Errorf("rendering cleaning log: %w", err)
	}

	filename := csvexport.BuildFilename(label)
	exportID := s.exports.Put(data, filename)

	return &BatchReport{
		Outcomes: outcomes,
		Log:      entries,
		ExportID: exportID,
		Filename: filename,
	}, nil
}

func renderCSV(entries []domain.CleaningLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(csvexport.BOM)

	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	if err := w.WriteEntries(entries); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
