package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists expense records in a SQLite database. Unlike the
// snapshot store it appends rows instead of rewriting the full state.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, category, description FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	records := []core.ExpenseRecord{}
	for rows.Next() {
		var (
			rec     core.ExpenseRecord
			cents   int64
			dateStr string
		)
		if err := rows.Scan(&rec.ID, &cents, &dateStr, &rec.Category, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			// A corrupt row must not take the whole ledger down.
			slog.WarnContext(ctx, "Skipping expense row with unparsable date",
				"id", rec.ID, "date", dateStr)
			continue
		}
		rec.Amount = core.Money{Cents: cents}
		rec.Date = date
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec core.ExpenseRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, date, category, description) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Amount.Cents, rec.Date.String(), rec.Category, rec.Description)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", rec.ID,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.String(),
		"category", rec.Category)

	return nil
}
