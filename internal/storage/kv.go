// Package storage provides the ledger's persistence backends: a
// key-value snapshot store, an ephemeral in-memory store, and a SQLite
// repository with embedded migrations.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// KV is the key-value persistence collaborator: Get returns the stored
// value for a key (ok=false when absent), Set overwrites it.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// FileKV keeps one file per key under a base directory.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return string(data), true, nil
}

func (kv *FileKV) Set(key, value string) error {
	// Write then rename so readers never observe a partial value.
	tmp := kv.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err := os.Rename(tmp, kv.path(key)); err != nil {
		return fmt.Errorf("commit key %q: %w", key, err)
	}
	return nil
}
