package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodrec/internal/domain"
	"foodrec/internal/handler"
	"foodrec/internal/service"
	"foodrec/mocks"
)

func TestBatchRun(t *testing.T) {
	batches := new(mocks.MockBatchService)
	exports := service.NewExportStore()
	h := handler.NewBatchHandler(batches, exports)

	report := &service.BatchReport{
		Outcomes: []domain.BatchOutcome{
			{QueryID: "row-a", Result: &domain.ReconciliationResult{
				QueryID: "row-a",
				Matches: []domain.Match{{CatalogID: "1", DisplayName: "Milk", Score: 0.9, IsStrongMatch: true}},
			}},
			{QueryID: "row-1", Err: domain.ErrUpstreamTimeout},
		},
		Log: []domain.CleaningLogEntry{
			{QueryID: "row-a", RawText: "milk", Decision: domain.DecisionAutoMatched},
			{QueryID: "row-1", RawText: "bread", Decision: domain.DecisionError},
		},
		ExportID: "token-123",
		Filename: "cleaning_log_2026-08-24.csv",
	}

	batches.On("RunBatch", mock.Anything, mock.MatchedBy(func(qs []domain.Query) bool {
		// Missing row IDs are filled from the row position
		return len(qs) == 2 && qs[0].ID == "row-a" && qs[1].ID == "row-1"
	}), "weekly").Return(report, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"label": "weekly",
		"rows": []map[string]string{
			{"id": "row-a", "query": "milk"},
			{"query": "bread"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Run(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, _ := json.Marshal(resp.Data)
	var payload struct {
		Rows []struct {
			QueryID string `json:"query_id"`
			Error   string `json:"error"`
		} `json:"rows"`
		ExportID string `json:"export_id"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Rows, 2)
	assert.Empty(t, payload.Rows[0].Error)
	assert.NotEmpty(t, payload.Rows[1].Error)
	assert.Equal(t, "token-123", payload.ExportID)

	batches.AssertExpectations(t)
}

func TestBatchRun_TooLarge(t *testing.T) {
	batches := new(mocks.MockBatchService)
	h := handler.NewBatchHandler(batches, service.NewExportStore())

	batches.On("RunBatch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrBatchTooLarge)

	body := []byte(`{"rows": [{"query": "milk"}]}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Run(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBatchRun_MissingRows(t *testing.T) {
	h := handler.NewBatchHandler(new(mocks.MockBatchService), service.NewExportStore())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Run(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownload(t *testing.T) {
	exports := service.NewExportStore()
	id := exports.Put([]byte("Query ID,Raw Text\n"), "cleaning_log_2026-08-24.csv")

	h := handler.NewBatchHandler(new(mocks.MockBatchService), exports)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/exports/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cleaning_log_2026-08-24.csv")
	assert.Equal(t, "Query ID,Raw Text\n", w.Body.String())
}

func TestDownload_NotFound(t *testing.T) {
	h := handler.NewBatchHandler(new(mocks.MockBatchService), service.NewExportStore())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/exports/unknown", nil)
	c.Params = gin.Params{{Key: "id", Value: "unknown"}}
	h.Download(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
