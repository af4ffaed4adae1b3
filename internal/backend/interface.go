package backend

import (
	"spendlog/internal/ledger"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the store instance and an optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Type selects which persistence backend the application runs on.
type Type string

const (
	SnapshotBackend Type = "snapshot"
	SQLiteBackend   Type = "sqlite"
	MemoryBackend   Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SnapshotBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SnapshotBackend, SQLiteBackend, MemoryBackend}
}
