package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"foodrec/internal/domain"
	"foodrec/internal/service"
)

// identifierSpace of the backing catalog, advertised in the manifest.
const (
	serviceName     = "Food Reconciliation API"
	identifierSpace = "https://world.openfoodfacts.org/"
	schemaSpace     = "http://schema.org/Product"
	viewURL         = "https://world.openfoodfacts.org/product/{{id}}"
)

// ReconcileHandler adapts the reconciliation wire protocol to the
// engine: one keyed request envelope in, one keyed response document
// out.
type ReconcileHandler struct {
	reconciler service.ReconcileService
}

// NewReconcileHandler creates a ReconcileHandler.
func NewReconcileHandler(reconciler service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// wireQuery is one query entry in the request envelope.
type wireQuery struct {
	Query string `json:"query"`
	Name  string `json:"name"`
	Q     string `json:"q"`
	Brand string `json:"brand"`
	Limit int    `json:"limit"`
}

// text returns the query text under whichever alias the caller used.
func (w *wireQuery) text() string {
	if w.Query != "" {
		return w.Query
	}
	if w.Name != "" {
		return w.Name
	}
	return w.Q
}

// wireMatch is one entry of a per-key result list. Type carries the
// engine's type tags as plain strings.
type wireMatch struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Score float64  `json:"score"`
	Match bool     `json:"match"`
	Type  []string `json:"type"`
}

// wireTypeDesc is the manifest's default-type descriptor.
type wireTypeDesc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireResult struct {
	Result []wireMatch `json:"result"`
}

var productType = []wireTypeDesc{{ID: "/product", Name: "Product"}}

// Manifest handles GET /reconcile: the service metadata document.
func (h *ReconcileHandler) Manifest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":            serviceName,
		"identifierSpace": identifierSpace,
		"schemaSpace":     schemaSpace,
		"defaultTypes":    productType,
		"view":            gin.H{"url": viewURL},
	})
}

// Reconcile handles POST /reconcile. The payload is either
// {"queries": {key: {...}}} or the bare keyed map. The response key set
// equals the request key set exactly; per-query failures degrade to an
// empty result list since the protocol has no per-item error channel.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	raw := payload
	if inner, ok := payload["queries"]; ok {
		var unwrapped map[string]json.RawMessage
		if err := json.Unmarshal(inner, &unwrapped); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'queries' format"})
			return
		}
		raw = unwrapped
	}

	// Deterministic submission order so the cleaning log and the batch
	// outcomes line up with a stable key ordering.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	queries := make([]domain.Query, 0, len(keys))
	for _, key := range keys {
		var wq wireQuery
		// A malformed per-key spec still yields a response key; the
		// empty query text fails normalization and degrades to [].
		_ = json.Unmarshal(raw[key], &wq)
		queries = append(queries, domain.Query{
			ID:      key,
			RawText: wq.text(),
			Brand:   wq.Brand,
			Limit:   wq.Limit,
		})
	}

	outcomes := h.reconciler.ReconcileBatch(c.Request.Context(), queries)

	response := make(map[string]wireResult, len(outcomes))
	for _, outcome := range outcomes {
		response[outcome.QueryID] = toWireResult(outcome)
	}
	c.JSON(http.StatusOK, response)
}

// toWireResult maps one outcome to the protocol shape. The engine's
// error kind is not representable on the wire; it stays visible to the
// cleaning log and the server log only.
func toWireResult(outcome domain.BatchOutcome) wireResult {
	if outcome.Err != nil {
		return wireResult{Result: []wireMatch{}}
	}
	matches := make([]wireMatch, len(outcome.Result.Matches))
	for i, m := range outcome.Result.Matches {
		matches[i] = wireMatch{
			ID:    m.CatalogID,
			Name:  m.DisplayName,
			Score: roundScore(m.Score),
			Match: m.IsStrongMatch,
			Type:  m.TypeTags,
		}
	}
	return wireResult{Result: matches}
}

// roundScore rounds to two decimals at the wire boundary only; the
// engine keeps full-precision floats.
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
