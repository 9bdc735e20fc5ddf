// Package backend selects and wires a storage backend from config.
package backend

import (
	"fmt"
	"log/slog"

	"dompet/internal/config"
	"dompet/internal/storage"
	"dompet/internal/storage/memory"
	"dompet/internal/storage/postgres"
	"dompet/internal/storage/sqlite"
)

type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	}
	return false
}

// Result bundles the store with its cleanup; cleanup is always
// non-nil so callers can defer it unconditionally.
type Result struct {
	Store   storage.Store
	Cleanup func() error
}

// FromConfig opens the configured store.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	switch t {
	case MemoryBackend:
		store := memory.New()
		logger.Info("Initialized memory backend")
		return &Result{Store: store, Cleanup: store.Close}, nil

	case SQLiteBackend:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case PostgresBackend:
		store, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("Initialized Postgres backend")
		return &Result{Store: store, Cleanup: store.Close}, nil
	}

	return nil, fmt.Errorf("invalid backend type: %s", t)
}
