package domain

// Query is a single free-text product lookup submitted by a caller.
// The ID is the caller-assigned correlation key and is echoed back
// unchanged on every outcome.
type Query struct {
	ID      string `json:"id"`
	RawText string `json:"raw_text"`
	// Brand is an optional caller-supplied brand hint, folded into the
	// normalized query's brand tokens.
	Brand string `json:"brand,omitempty"`
	// Limit optionally overrides the configured top-N for this query.
	// Zero means "use the default"; the selector clamps it either way.
	Limit int `json:"limit,omitempty"`
}

// NormalizedQuery is the canonical form of a Query. It is derived once
// by the normalizer and never mutated afterwards.
type NormalizedQuery struct {
	ID            string
	CanonicalText string
	// BrandTokens holds the deduplicated, sorted tokens of the canonical
	// text that appear in the brand vocabulary. Empty is a valid outcome.
	BrandTokens []string
}

// CandidateRecord is one product returned by the candidate provider.
// The engine treats it as read-only. Brand is empty when the catalog
// carries no brand for the product.
type CandidateRecord struct {
	CatalogID   string            `json:"catalog_id"`
	DisplayName string            `json:"display_name"`
	Brand       string            `json:"brand,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Match is a scored candidate that survived selection.
type Match struct {
	CatalogID     string   `json:"catalog_id"`
	DisplayName   string   `json:"display_name"`
	Score         float64  `json:"score"`
	IsStrongMatch bool     `json:"is_strong_match"`
	TypeTags      []string `json:"type_tags"`
}

// ReconciliationResult is the ordered match list for one query.
// Matches are sorted by descending score, ties broken by ascending
// catalog ID.
type ReconciliationResult struct {
	QueryID string  `json:"query_id"`
	Matches []Match `json:"matches"`
}

// BatchOutcome is the terminal state of one query's pipeline. Exactly
// one outcome exists per input query: either Result is set, or Err
// carries the captured pipeline failure.
type BatchOutcome struct {
	QueryID string
	Result  *ReconciliationResult
	Err     error
}

// CleaningLogEntry records the match decision for one input row. One
// entry exists per processed row; the recorder exposes entries in the
// original submission order.
type CleaningLogEntry struct {
	QueryID     string   `json:"query_id"`
	RawText     string   `json:"raw_text"`
	ChosenID    string   `json:"chosen_id,omitempty"`
	ChosenName  string   `json:"chosen_name,omitempty"`
	ChosenScore float64  `json:"chosen_score,omitempty"`
	Decision    Decision `json:"decision"`
	Detail      string   `json:"detail,omitempty"`
}
