package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodrec/internal/config"
	"foodrec/internal/domain"
	"foodrec/internal/service"
	"foodrec/mocks"
)

func batchOutcomes(queries []domain.Query) []domain.BatchOutcome {
	outcomes := make([]domain.BatchOutcome, len(queries))
	for i, q := range queries {
		outcomes[i] = domain.BatchOutcome{
			QueryID: q.ID,
			Result: &domain.ReconciliationResult{
				QueryID: q.ID,
				Matches: []domain.Match{{
					CatalogID:     "12345",
					DisplayName:   "Whole Milk",
					Score:         0.9,
					IsStrongMatch: true,
					TypeTags:      []string{domain.TypeTagProduct},
				}},
			},
		}
	}
	return outcomes
}

func TestRunBatch(t *testing.T) {
	reconciler := new(mocks.MockReconcileService)
	reconciler.On("ReconcileBatch", mock.Anything, mock.Anything).
		Return(batchOutcomes([]domain.Query{{ID: "q0"}, {ID: "q1"}}))

	exports := service.NewExportStore()
	svc := service.NewBatchService(reconciler, exports, config.BatchConfig{Concurrency: 2, MaxRows: 10})

	queries := []domain.Query{
		{ID: "q0", RawText: "milk"},
		{ID: "q1", RawText: "bread"},
	}
	report, err := svc.RunBatch(context.Background(), queries, "weekly upload")
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 2)
	require.Len(t, report.Log, 2)
	assert.Equal(t, "q0", report.Log[0].QueryID)
	assert.Equal(t, "q1", report.Log[1].QueryID)
	assert.Equal(t, domain.DecisionAutoMatched, report.Log[0].Decision)

	// The cleaning log is staged as a downloadable CSV
	exp, err := exports.Get(report.ExportID)
	require.NoError(t, err)
	assert.Equal(t, report.Filename, exp.Filename)

	// BOM prefix, then parseable CSV: header + one row per query
	require.True(t, bytes.HasPrefix(exp.Data, []byte{0xEF, 0xBB, 0xBF}))
	r := csv.NewReader(bytes.NewReader(exp.Data[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRunBatch_TooLarge(t *testing.T) {
	reconciler := new(mocks.MockReconcileService)
	exports := service.NewExportStore()
	svc := service.NewBatchService(reconciler, exports, config.BatchConfig{Concurrency: 2, MaxRows: 2})

	queries := []domain.Query{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	_, err := svc.RunBatch(context.Background(), queries, "")
	assert.True(t, errors.Is(err, domain.ErrBatchTooLarge))
	reconciler.AssertNotCalled(t, "ReconcileBatch")
}

func TestRunBatch_Empty(t *testing.T) {
	reconciler := new(mocks.MockReconcileService)
	exports := service.NewExportStore()
	svc := service.NewBatchService(reconciler, exports, config.BatchConfig{Concurrency: 2, MaxRows: 10})

	_, err := svc.RunBatch(context.Background(), nil, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidQuery))
}

func TestExportStore(t *testing.T) {
	store := service.NewExportStore()

	id := store.Put([]byte("a,b,c"), "log.csv")
	require.NotEmpty(t, id)

	exp, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b,c"), exp.Data)
	assert.Equal(t, "log.csv", exp.Filename)

	_, err = store.Get("missing")
	assert.True(t, errors.Is(err, domain.ErrExportNotFound))

	// Tokens are unique per export
	other := store.Put([]byte("x"), "other.csv")
	assert.NotEqual(t, id, other)
}
