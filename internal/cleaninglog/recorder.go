// Package cleaninglog accumulates the audit trail of match decisions
// for every processed input row.
package cleaninglog

import (
	"sort"
	"sync"

	"foodrec/internal/domain"
)

// Recorder collects one cleaning-log entry per input row. Batch
// pipelines complete out of order, so Record is safe for concurrent
// use and Entries re-sorts by original input position.
type Recorder struct {
	mu      sync.Mutex
	entries []indexedEntry
}

type indexedEntry struct {
	index int
	entry domain.CleaningLogEntry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record classifies the outcome of one query and appends its entry.
// index is the query's position in the submitted batch.
func (r *Recorder) Record(index int, q domain.Query, outcome domain.BatchOutcome) {
	entry := Classify(q, outcome)
	r.mu.Lock()
	r.entries = append(r.entries, indexedEntry{index: index, entry: entry})
	r.mu.Unlock()
}

// Entries returns the log in original submission order.
func (r *Recorder) Entries() []domain.CleaningLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := make([]indexedEntry, len(r.entries))
	copy(sorted, r.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })

	out := make([]domain.CleaningLogEntry, len(sorted))
	for i, ie := range sorted {
		out[i] = ie.entry
	}
	return out
}

// Classify maps one outcome to its cleaning-log entry: a strong top
// match is auto-matched, surviving-but-uncertain candidates are
// ambiguous, an empty result is unmatched, and a captured failure is an
// error (retryable downstream, unlike unmatched).
func Classify(q domain.Query, outcome domain.BatchOutcome) domain.CleaningLogEntry {
	entry := domain.CleaningLogEntry{
		QueryID: q.ID,
		RawText: q.RawText,
	}

	if outcome.Err != nil {
		entry.Decision = domain.DecisionError
		entry.Detail = outcome.Err.Error()
		return entry
	}

	matches := outcome.Result.Matches
	if len(matches) == 0 {
		entry.Decision = domain.DecisionUnmatched
		return entry
	}

	top := matches[0]
	entry.ChosenID = top.CatalogID
	entry.ChosenName = top.DisplayName
	entry.ChosenScore = top.Score
	if top.IsStrongMatch {
		entry.Decision = domain.DecisionAutoMatched
	} else {
		entry.Decision = domain.DecisionAmbiguous
	}
	return entry
}
