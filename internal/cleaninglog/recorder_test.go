package cleaninglog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodrec/internal/domain"
)

func successOutcome(id string, matches ...domain.Match) domain.BatchOutcome {
	return domain.BatchOutcome{
		QueryID: id,
		Result:  &domain.ReconciliationResult{QueryID: id, Matches: matches},
	}
}

func TestClassify_AutoMatched(t *testing.T) {
	q := domain.Query{ID: "q0", RawText: "milk"}
	outcome := successOutcome("q0",
		domain.Match{CatalogID: "12345", DisplayName: "Whole Milk", Score: 0.9, IsStrongMatch: true},
		domain.Match{CatalogID: "67890", DisplayName: "Milk Drink", Score: 0.6},
	)

	entry := Classify(q, outcome)
	assert.Equal(t, domain.DecisionAutoMatched, entry.Decision)
	assert.Equal(t, "12345", entry.ChosenID)
	assert.Equal(t, "Whole Milk", entry.ChosenName)
	assert.Equal(t, 0.9, entry.ChosenScore)
}

func TestClassify_Ambiguous(t *testing.T) {
	q := domain.Query{ID: "q0", RawText: "milk"}
	outcome := successOutcome("q0",
		domain.Match{CatalogID: "1", DisplayName: "Milk A", Score: 0.7},
		domain.Match{CatalogID: "2", DisplayName: "Milk B", Score: 0.69},
	)

	entry := Classify(q, outcome)
	assert.Equal(t, domain.DecisionAmbiguous, entry.Decision)
	// The top candidate is still surfaced for the reviewer
	assert.Equal(t, "1", entry.ChosenID)
}

func TestClassify_Unmatched(t *testing.T) {
	q := domain.Query{ID: "q0", RawText: "xyzzy"}
	entry := Classify(q, successOutcome("q0"))

	// Empty catalog result is unmatched, not error
	assert.Equal(t, domain.DecisionUnmatched, entry.Decision)
	assert.Empty(t, entry.ChosenID)
}

func TestClassify_Error(t *testing.T) {
	q := domain.Query{ID: "q0", RawText: "milk"}
	entry := Classify(q, domain.BatchOutcome{QueryID: "q0", Err: domain.ErrUpstreamTimeout})

	assert.Equal(t, domain.DecisionError, entry.Decision)
	assert.Contains(t, entry.Detail, "timed out")
	assert.Empty(t, entry.ChosenID)
}

func TestRecorder_RestoresInputOrder(t *testing.T) {
	r := NewRecorder()

	// Record in reverse completion order
	for i := 4; i >= 0; i-- {
		q := domain.Query{ID: string(rune('a' + i)), RawText: "milk"}
		r.Record(i, q, successOutcome(q.ID))
	}

	entries := r.Entries()
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, string(rune('a'+i)), e.QueryID)
	}
}

func TestRecorder_ConcurrentRecords(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := domain.Query{ID: "q", RawText: "milk"}
			r.Record(i, q, successOutcome("q"))
		}()
	}
	wg.Wait()

	assert.Len(t, r.Entries(), 100)
}
