package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"foodrec/internal/config"
	"foodrec/internal/domain"
	"foodrec/internal/matcher"
	"foodrec/internal/normalizer"
	"foodrec/internal/port"
)

// ReconcileService runs the reconciliation pipeline: normalize, fetch
// candidates, score, select.
type ReconcileService interface {
	// ReconcileOne runs the pipeline for a single query.
	ReconcileOne(ctx context.Context, q domain.Query) (*domain.ReconciliationResult, error)
	// ReconcileBatch runs every query's pipeline under the configured
	// concurrency bound. It returns exactly one outcome per input
	// query, in input order, regardless of individual failures.
	ReconcileBatch(ctx context.Context, queries []domain.Query) []domain.BatchOutcome
}

type reconcileService struct {
	norm     *normalizer.Normalizer
	provider port.CandidateProvider
	scorer   *matcher.Scorer
	selector *matcher.Selector
	cfg      config.BatchConfig
	fetch    int
}

// NewReconcileService wires the pipeline stages together. The provider
// is expected to already carry the retry/timeout policy.
func NewReconcileService(
	norm *normalizer.Normalizer,
	provider port.CandidateProvider,
	scorer *matcher.Scorer,
	selector *matcher.Selector,
	batchCfg config.BatchConfig,
	fetchLimit int,
) ReconcileService {
	return &reconcileService{
		norm:     norm,
		provider: provider,
		scorer:   scorer,
		selector: selector,
		cfg:      batchCfg,
		fetch:    fetchLimit,
	}
}

func (s *reconcileService) ReconcileOne(ctx context.Context, q domain.Query) (*domain.ReconciliationResult, error) {
	nq, err := s.norm.Normalize(q)
	if err != nil {
		return nil, err
	}

	candidates, err := s.provider.Search(ctx, nq, s.fetch)
	if err != nil {
		return nil, err
	}

	// Catalog searches constrained by brand can duplicate plain-search
	// hits; the provider contract does not forbid duplicates either.
	seen := make(map[string]struct{}, len(candidates))
	scored := make([]matcher.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.CatalogID]; dup {
			continue
		}
		seen[c.CatalogID] = struct{}{}
		scored = append(scored, matcher.ScoredCandidate{
			Candidate: c,
			Score:     s.scorer.Score(nq, c),
		})
	}

	result := s.selector.Select(q.ID, scored, q.Limit)
	return &result, nil
}

func (s *reconcileService) ReconcileBatch(ctx context.Context, queries []domain.Query) []domain.BatchOutcome {
	outcomes := make([]domain.BatchOutcome, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i := range queries {
		i := i
		q := queries[i]
		g.Go(func() error {
			result, err := s.ReconcileOne(gctx, q)
			if err != nil {
				// Captured per query; never propagated, so a failing
				// query cannot cancel its siblings through gctx.
				outcomes[i] = domain.BatchOutcome{QueryID: q.ID, Err: err}
				return nil
			}
			outcomes[i] = domain.BatchOutcome{QueryID: q.ID, Result: result}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
