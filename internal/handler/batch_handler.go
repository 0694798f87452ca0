package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrec/internal/domain"
	"foodrec/internal/service"
)

// BatchHandler serves the internal batch surface: submit a list of
// rows, get outcomes plus the cleaning log plus a CSV export token.
type BatchHandler struct {
	batches service.BatchService
	exports *service.ExportStore
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(batches service.BatchService, exports *service.ExportStore) *BatchHandler {
	return &BatchHandler{batches: batches, exports: exports}
}

type batchRow struct {
	ID    string `json:"id"`
	Query string `json:"query" binding:"required"`
	Brand string `json:"brand"`
}

type batchRequest struct {
	Label string     `json:"label"`
	Rows  []batchRow `json:"rows" binding:"required"`
}

type batchRowResponse struct {
	QueryID string         `json:"query_id"`
	Matches []domain.Match `json:"matches"`
	Error   string         `json:"error,omitempty"`
}

type batchResponse struct {
	Rows     []batchRowResponse        `json:"rows"`
	Log      []domain.CleaningLogEntry `json:"cleaning_log"`
	ExportID string                    `json:"export_id"`
	Filename string                    `json:"filename"`
}

// Run handles POST /api/v1/batch
func (h *BatchHandler) Run(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must contain a 'rows' array with 'query' fields")
		return
	}

	queries := make([]domain.Query, len(req.Rows))
	for i, row := range req.Rows {
		id := row.ID
		if id == "" {
			id = fmt.Sprintf("row-%d", i)
		}
		queries[i] = domain.Query{ID: id, RawText: row.Query, Brand: row.Brand}
	}

	report, err := h.batches.RunBatch(c.Request.Context(), queries, req.Label)
	if err != nil {
		HandleError(c, err)
		return
	}

	rows := make([]batchRowResponse, len(report.Outcomes))
	for i, outcome := range report.Outcomes {
		rows[i] = batchRowResponse{QueryID: outcome.QueryID}
		if outcome.Err != nil {
			rows[i].Error = outcome.Err.Error()
			rows[i].Matches = []domain.Match{}
			continue
		}
		rows[i].Matches = outcome.Result.Matches
	}

	RespondOK(c, batchResponse{
		Rows:     rows,
		Log:      report.Log,
		ExportID: report.ExportID,
		Filename: report.Filename,
	})
}

// Download handles GET /api/v1/exports/:id
func (h *BatchHandler) Download(c *gin.Context) {
	exp, err := h.exports.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", exp.Data)
}
