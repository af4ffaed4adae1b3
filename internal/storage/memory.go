package storage

import (
	"context"
	"sync"

	"spendlog/internal/core"
)

// MemoryStore is an ephemeral Store for tests and throwaway runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []core.ExpenseRecord
}

func NewMemoryStore(seed ...core.ExpenseRecord) *MemoryStore {
	return &MemoryStore{records: append([]core.ExpenseRecord(nil), seed...)}
}

func (s *MemoryStore) Load(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseRecord(nil), s.records...), nil
}

func (s *MemoryStore) Append(_ context.Context, rec core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}
