package port

import (
	"context"

	"foodrec/internal/domain"
)

// CandidateProvider abstracts the external product catalog. Search
// returns at most limit candidates for the normalized query; an empty
// slice means the catalog had nothing, which is not an error.
// Implementations must be safe for concurrent use.
type CandidateProvider interface {
	Search(ctx context.Context, q domain.NormalizedQuery, limit int) ([]domain.CandidateRecord, error)
	// Ping verifies the catalog endpoint is reachable. Used at startup
	// and by the readiness probe.
	Ping(ctx context.Context) error
}
