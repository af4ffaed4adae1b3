package ledger

import (
	"context"

	"spendlog/internal/core"
)

// Store is the persistence port for the ledger.
//
// Load returns the full record sequence in insertion order; a store
// with no usable state returns an empty sequence, never an error for
// missing or malformed data. Append durably adds one record: the
// snapshot-backed implementation rewrites the whole sequence
// (last-writer-wins, no versioning), the SQLite implementation inserts
// a row.
type Store interface {
	Load(ctx context.Context) ([]core.ExpenseRecord, error)
	Append(ctx context.Context, rec core.ExpenseRecord) error
}
