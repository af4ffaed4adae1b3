package backend

import (
	"fmt"

	"spendlog/internal/config"
)

// Config holds everything needed to construct a store.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Snapshot and memory backends keep their files under this directory.
	DataDirectory string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		DataDirectory: appConfig.DataDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SnapshotBackend:
		if c.DataDirectory == "" {
			return fmt.Errorf("data directory is required for snapshot backend")
		}
	case MemoryBackend:
		// Memory backend doesn't require additional configuration.
	}

	return nil
}
