package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/fasowatch/mediascan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Articles: []types.Article{
			{
				ID:        "9b2f5a0d3c4e1f6a7b8c9d0e1f2a3b4c",
				Media:     "Lefaso.net",
				Titre:     "Un titre",
				Date:      "2025-11-15 17:00:00",
				URL:       "https://lefaso.net/spip.php?article140001",
				Contenu:   "Le contenu.",
				Categorie: "Politique",
				Engagement: types.Engagement{
					Likes: 10, Partages: 3, Commentaires: 2,
				},
				Sensible:      true,
				ToxiciteScore: 0.42,
				Comments: []types.Comment{
					{Text: "Premier commentaire", ToxiciteScore: 0.42, Sensible: true},
					{Text: "Deuxième", Replies: []types.Comment{{Text: "Réponse"}}},
				},
			},
			{
				ID:        "0a1b2c3d4e5f60718293a4b5c6d7e8f9",
				Media:     "Sidwaya",
				Titre:     "Autre titre",
				Date:      "2025-11-14 09:00:00",
				URL:       "https://www.sidwaya.info/autre",
				Categorie: "Sport",
			},
		},
		Medias: []types.Media{
			{Nom: "Lefaso.net", BaseURL: "https://lefaso.net", TypeMedia: "web", NbArticles: 1, EngagementTotal: 15, ScoreInfluence: 7.5, Rang: 1, Actif90j: true},
			{Nom: "Sidwaya", BaseURL: "https://www.sidwaya.info", TypeMedia: "web", NbArticles: 1, Rang: 2},
		},
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "sample_data.json")
	s := NewJSONStore(path, testLogger)
	ctx := context.Background()

	want := sampleSnapshot()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotEqual(t, got, want)
}

func TestJSONStoreMissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"), testLogger)
	_, err := s.Load(context.Background())
	if !errors.Is(err, types.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestJSONStoreSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	s := NewJSONStore(path, testLogger)
	ctx := context.Background()

	if err := s.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	small := &types.Snapshot{Medias: []types.Media{{Nom: "Seul"}}}
	if err := s.Save(ctx, small); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Articles) != 0 || len(got.Medias) != 1 {
		t.Errorf("second save did not replace the first: %+v", got)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "media_scan.db")
	s, err := OpenSQLiteStore(path, testLogger)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	want := sampleSnapshot()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotEqual(t, got, want)
}

func TestSQLiteStoreEmpty(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "empty.db"), testLogger)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer s.Close()

	_, err = s.Load(context.Background())
	if !errors.Is(err, types.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "replace.db"), testLogger)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	small := &types.Snapshot{
		Articles: []types.Article{{ID: "seul0000000000000000000000000000", URL: "https://x.bf/1", Media: "X"}},
		Medias:   []types.Media{{Nom: "X"}},
	}
	if err := s.Save(ctx, small); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Articles) != 1 || len(got.Medias) != 1 {
		t.Errorf("save did not replace: %d articles, %d medias", len(got.Articles), len(got.Medias))
	}
}

func TestMultiStoreLoadFallsBack(t *testing.T) {
	dir := t.TempDir()
	empty := NewJSONStore(filepath.Join(dir, "missing.json"), testLogger)
	full := NewJSONStore(filepath.Join(dir, "full.json"), testLogger)
	ctx := context.Background()

	if err := full.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	multi := NewMultiStore(testLogger, empty, full)
	got, err := multi.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Articles) != 2 {
		t.Errorf("articles = %d, want fallback to the populated backend", len(got.Articles))
	}
}

func TestMultiStoreSaveFansOut(t *testing.T) {
	dir := t.TempDir()
	a := NewJSONStore(filepath.Join(dir, "a.json"), testLogger)
	b := NewJSONStore(filepath.Join(dir, "b.json"), testLogger)
	ctx := context.Background()

	multi := NewMultiStore(testLogger, a, b)
	if err := multi.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, backend := range []Store{a, b} {
		if _, err := backend.Load(ctx); err != nil {
			t.Errorf("backend %s did not receive the snapshot: %v", backend.Name(), err)
		}
	}
}

func assertSnapshotEqual(t *testing.T, got, want *types.Snapshot) {
	t.Helper()
	if len(got.Articles) != len(want.Articles) {
		t.Fatalf("articles = %d, want %d", len(got.Articles), len(want.Articles))
	}
	byID := make(map[string]types.Article, len(got.Articles))
	for _, a := range got.Articles {
		byID[a.ID] = a
	}
	for _, w := range want.Articles {
		g, ok := byID[w.ID]
		if !ok {
			t.Errorf("article %s missing", w.ID)
			continue
		}
		if g.Titre != w.Titre || g.Date != w.Date || g.URL != w.URL ||
			g.Categorie != w.Categorie || g.Sensible != w.Sensible ||
			g.ToxiciteScore != w.ToxiciteScore || g.Engagement != w.Engagement {
			t.Errorf("article %s mismatch:\n got %+v\nwant %+v", w.ID, g, w)
		}
		if len(g.Comments) != len(w.Comments) {
			t.Errorf("article %s comments = %d, want %d", w.ID, len(g.Comments), len(w.Comments))
		}
	}

	if len(got.Medias) != len(want.Medias) {
		t.Fatalf("medias = %d, want %d", len(got.Medias), len(want.Medias))
	}
	byNom := make(map[string]types.Media, len(got.Medias))
	for _, m := range got.Medias {
		byNom[m.Nom] = m
	}
	for _, w := range want.Medias {
		if g, ok := byNom[w.Nom]; !ok || g != w {
			t.Errorf("media %s mismatch: got %+v, want %+v", w.Nom, g, w)
		}
	}
}
