package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fasowatch/mediascan/internal/types"
)

// JSONStore reads and writes the snapshot interchange file, a single
// JSON document holding the article collection and the media roster.
type JSONStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewJSONStore creates a snapshot file store.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger.With("component", "json_store"),
	}
}

func (s *JSONStore) Name() string { return "json" }

// Save writes the snapshot atomically: to a temp file first, then a
// rename over the target.
func (s *JSONStore) Save(_ context.Context, snap *types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("create output dir: %w", err)}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &types.StoreError{Backend: s.Name(), Err: err}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("encode snapshot: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &types.StoreError{Backend: s.Name(), Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &types.StoreError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("snapshot written", "path", s.path,
		"articles", len(snap.Articles), "medias", len(snap.Medias))
	return nil
}

func (s *JSONStore) Load(_ context.Context) (*types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrSnapshotNotFound, s.path)
		}
		return nil, &types.StoreError{Backend: s.Name(), Err: err}
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("decode snapshot: %w", err)}
	}
	return &snap, nil
}

func (s *JSONStore) Close() error { return nil }
