package backend

import (
	"context"
	"fmt"
	"log/slog"

	"spendlog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(_ context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SnapshotBackend:
		return f.createSnapshotStore(config)
	case SQLiteBackend:
		return f.createSQLiteStore(config)
	case MemoryBackend:
		return f.createMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSnapshotStore(config Config) (*Result, error) {
	kv, err := storage.NewFileKV(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot directory: %w", err)
	}

	f.logger.Info("Initialized snapshot backend",
		"data_dir", config.DataDirectory,
		"key", storage.DefaultSnapshotKey)

	return &Result{
		Store:   storage.NewSnapshotStore(kv, storage.DefaultSnapshotKey),
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryStore() (*Result, error) {
	f.logger.Info("Initialized in-memory backend")

	return &Result{
		Store:   storage.NewMemoryStore(),
		Cleanup: nil,
	}, nil
}
