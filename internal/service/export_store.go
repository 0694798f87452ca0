package service

import (
	"sync"

	"github.com/google/uuid"

	"foodrec/internal/domain"
)

// Export is a staged cleaning-log download.
type Export struct {
	Data     []byte
	Filename string
}

// ExportStore holds rendered cleaning-log CSVs in memory, keyed by an
// opaque token handed back to the batch caller. Safe for concurrent
// use.
type ExportStore struct {
	mu      sync.RWMutex
	exports map[string]Export
}

// NewExportStore creates an empty ExportStore.
func NewExportStore() *ExportStore {
	return &ExportStore{exports: make(map[string]Export)}
}

// Put stages data under a fresh token and returns the token.
func (s *ExportStore) Put(data []byte, filename string) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.exports[id] = Export{Data: data, Filename: filename}
	s.mu.Unlock()
	return id
}

// Get returns the export for id, or ErrExportNotFound.
func (s *ExportStore) Get(id string) (Export, error) {
	s.mu.RLock()
	exp, ok := s.exports[id]
	s.mu.RUnlock()
	if !ok {
		return Export{}, domain.ErrExportNotFound
	}
	return exp, nil
}
