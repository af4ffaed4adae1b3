package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"spendlog/internal/core"
)

// DefaultSnapshotKey is the key the record sequence is stored under.
const DefaultSnapshotKey = "expenses"

// SnapshotStore persists the full record sequence as a single JSON
// array under one key. Every Append re-serializes the whole sequence
// and overwrites the value (last-writer-wins, no versioning). An
// absent, empty, or unparsable value loads as an empty sequence; that
// path is never an error.
type SnapshotStore struct {
	kv  KV
	key string

	mu      sync.Mutex
	records []core.ExpenseRecord
}

func NewSnapshotStore(kv KV, key string) *SnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotStore{kv: kv, key: key}
}

func (s *SnapshotStore) Load(ctx context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		s.records = nil
		return []core.ExpenseRecord{}, nil
	}

	var records []core.ExpenseRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		slog.WarnContext(ctx, "Discarding unparsable expense snapshot",
			"key", s.key, "error", err)
		s.records = nil
		return []core.ExpenseRecord{}, nil
	}

	s.records = records
	return append([]core.ExpenseRecord(nil), records...), nil
}

func (s *SnapshotStore) Append(_ context.Context, rec core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]core.ExpenseRecord(nil), s.records...), rec)
	blob, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	if err := s.kv.Set(s.key, string(blob)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.records = next
	return nil
}
