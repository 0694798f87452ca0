package matcher

import (
	"sort"

	"foodrec/internal/config"
	"foodrec/internal/domain"
)

// ScoredCandidate pairs a candidate with its similarity score.
type ScoredCandidate struct {
	Candidate domain.CandidateRecord
	Score     float64
}

// Selector applies the score threshold, ordering, top-N cap, and the
// strong-match rule.
type Selector struct {
	cfg config.MatchingConfig
}

// NewSelector creates a Selector with the given tuning.
func NewSelector(cfg config.MatchingConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Select produces the ordered match list for one query. topN overrides
// the configured top-N when positive; it is always clamped to the
// [MinTopN, MaxTopN] range. An empty result means "no match", not an
// error.
func (s *Selector) Select(queryID string, scored []ScoredCandidate, topN int) domain.ReconciliationResult {
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	if topN < config.MinTopN {
		topN = config.MinTopN
	}
	if topN > config.MaxTopN {
		topN = config.MaxTopN
	}

	surviving := make([]ScoredCandidate, 0, len(scored))
	for _, sc := range scored {
		if sc.Score >= s.cfg.ScoreThreshold {
			surviving = append(surviving, sc)
		}
	}

	// Descending score; ascending catalog ID on ties for reproducibility.
	sort.Slice(surviving, func(i, j int) bool {
		if surviving[i].Score != surviving[j].Score {
			return surviving[i].Score > surviving[j].Score
		}
		return surviving[i].Candidate.CatalogID < surviving[j].Candidate.CatalogID
	})

	if len(surviving) > topN {
		surviving = surviving[:topN]
	}

	matches := make([]domain.Match, len(surviving))
	for i, sc := range surviving {
		matches[i] = domain.Match{
			CatalogID:   sc.Candidate.CatalogID,
			DisplayName: sc.Candidate.DisplayName,
			Score:       sc.Score,
			TypeTags:    []string{domain.TypeTagProduct},
		}
	}

	// The top survivor is a strong match only when it clears the
	// auto-match threshold and no runner-up sits within the ambiguity
	// epsilon of it.
	if len(matches) > 0 && matches[0].Score > s.cfg.AutoMatchThreshold {
		unambiguous := len(matches) == 1 || matches[0].Score-matches[1].Score > s.cfg.AmbiguityEpsilon
		matches[0].IsStrongMatch = unambiguous
	}

	return domain.ReconciliationResult{QueryID: queryID, Matches: matches}
}
