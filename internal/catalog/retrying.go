// Package catalog wraps candidate providers with the engine's lookup
// policy: per-call deadlines, a hard fetch-limit cap, and bounded
// retries with exponential backoff on timeouts only.
package catalog

import (
	"context"
	"errors"
	"time"

	"foodrec/internal/config"
	"foodrec/internal/domain"
	"foodrec/internal/port"
)

// RetryingProvider decorates a CandidateProvider with the retry policy
// of the reconciliation engine. Timeouts are retried up to RetryCount
// times with exponential backoff; unavailable-class errors (including
// 4xx responses) are never retried.
type RetryingProvider struct {
	inner port.CandidateProvider
	cfg   config.CatalogConfig
	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// NewRetryingProvider wraps inner with the configured lookup policy.
func NewRetryingProvider(inner port.CandidateProvider, cfg config.CatalogConfig) *RetryingProvider {
	return &RetryingProvider{inner: inner, cfg: cfg, sleep: time.Sleep}
}

// Search performs up to RetryCount+1 attempts. Each attempt carries its
// own deadline so a stalled upstream resolves to ErrUpstreamTimeout for
// this query only. The requested limit is capped at FetchLimit.
func (r *RetryingProvider) Search(ctx context.Context, q domain.NormalizedQuery, limit int) ([]domain.CandidateRecord, error) {
	if limit <= 0 || limit > r.cfg.FetchLimit {
		limit = r.cfg.FetchLimit
	}

	var lastErr error
	for attempt := 0; attempt <= r.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			r.sleep(r.cfg.BackoffBase << (attempt - 1))
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		records, err := r.inner.Search(attemptCtx, q, limit)
		cancel()

		if err == nil {
			return records, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrUpstreamTimeout) {
			return nil, err
		}
		// The batch context being done means the caller is gone, not
		// the upstream; stop retrying.
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// Ping delegates to the wrapped provider.
func (r *RetryingProvider) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}
