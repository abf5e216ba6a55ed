// Package analysis is the cross-source aggregation engine. It operates
// over an immutable in-memory snapshot of the article collection and the
// media roster; every query is a pure, stateless recomputation. A reload
// replaces the snapshot in a single assignment, never merges.
package analysis

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// Analyzer serves read-only aggregation queries over the loaded snapshot.
type Analyzer struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger

	mu   sync.RWMutex
	snap *types.Snapshot
}

// New creates an Analyzer with explicit weights and thresholds.
func New(cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With("component", "analyzer"),
	}
}

// Load replaces the current snapshot atomically. An empty snapshot is
// valid and yields zero-valued stats from every query.
func (a *Analyzer) Load(snap types.Snapshot) {
	a.mu.Lock()
	a.snap = &snap
	a.mu.Unlock()
	a.logger.Info("snapshot loaded", "articles", len(snap.Articles), "medias", len(snap.Medias))
}

// Loaded reports whether a snapshot has been loaded.
func (a *Analyzer) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap != nil
}

// Snapshot returns the loaded snapshot for listing and export. The slices
// are shared and must be treated as read-only.
func (a *Analyzer) Snapshot() (types.Snapshot, error) {
	snap, err := a.snapshot()
	if err != nil {
		return types.Snapshot{}, err
	}
	return *snap, nil
}

// snapshot returns the current snapshot or ErrNoSnapshot. Queries issued
// before any load must halt instead of defaulting.
func (a *Analyzer) snapshot() (*types.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap == nil {
		return nil, types.ErrNoSnapshot
	}
	return a.snap, nil
}

// referenceTime anchors trailing windows at the newest article date so
// repeated runs over the same snapshot agree. Falls back to wall clock
// for an empty collection.
func referenceTime(articles []types.Article) time.Time {
	var maxT time.Time
	for i := range articles {
		if t, err := normalize.ParseCanonical(articles[i].Date); err == nil && t.After(maxT) {
			maxT = t
		}
	}
	if maxT.IsZero() {
		return time.Now()
	}
	return maxT
}
