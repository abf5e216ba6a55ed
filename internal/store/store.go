// Package store persists and loads collection snapshots. The JSON file
// is the canonical interchange format; SQLite and MongoDB are optional
// backends behind the same interface.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/types"
)

// Store is the interface for all snapshot backends.
type Store interface {
	// Save persists a full snapshot, replacing any previous one.
	Save(ctx context.Context, snap *types.Snapshot) error

	// Load reads the latest snapshot. Returns ErrSnapshotNotFound when
	// the backend holds no data yet.
	Load(ctx context.Context) (*types.Snapshot, error)

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// Open builds the configured backend. The snapshot JSON file is always
// written; a database backend is layered on top of it when configured.
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	jsonStore := NewJSONStore(cfg.SnapshotFile, logger)

	switch cfg.Backend {
	case "", "none":
		return jsonStore, nil
	case "sqlite":
		db, err := OpenSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return NewMultiStore(logger, jsonStore, db), nil
	case "mongo":
		db, err := OpenMongoStore(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return NewMultiStore(logger, jsonStore, db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// MultiStore fans writes out to several backends. Loads come from the
// first backend that has data.
type MultiStore struct {
	backends []Store
	logger   *slog.Logger
}

// NewMultiStore creates a fan-out store.
func NewMultiStore(logger *slog.Logger, backends ...Store) *MultiStore {
	return &MultiStore{
		backends: backends,
		logger:   logger.With("component", "multi_store"),
	}
}

func (s *MultiStore) Name() string { return "multi" }

func (s *MultiStore) Save(ctx context.Context, snap *types.Snapshot) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Save(ctx, snap); err != nil {
			s.logger.Error("backend save failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiStore) Load(ctx context.Context) (*types.Snapshot, error) {
	var firstErr error
	for _, backend := range s.backends {
		snap, err := backend.Load(ctx)
		if err == nil {
			return snap, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = types.ErrSnapshotNotFound
	}
	return nil, firstErr
}

func (s *MultiStore) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
