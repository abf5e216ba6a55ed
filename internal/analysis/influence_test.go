package analysis

import (
	"testing"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/types"
)

func TestInfluenceWeightsSumToOne(t *testing.T) {
	w := config.DefaultConfig().Analysis.InfluenceWeights
	if sum := w.Sum(); sum < 0.999 || sum > 1.001 {
		t.Errorf("weights sum = %.3f, want 1.0", sum)
	}
}

// The ranking must be sorted by influence score descending with rank
// values forming the contiguous sequence 1..N.
func TestMediaRankingContiguousRanks(t *testing.T) {
	snap := types.Snapshot{
		Articles: []types.Article{
			art("a1", "A", "Sport", "2025-11-01 00:00:00", 100, 20, 10),
			art("a2", "A", "Politique", "2025-11-05 00:00:00", 50, 10, 5),
			art("b1", "B", "Sport", "2025-11-02 00:00:00", 5, 0, 1),
			art("c1", "C", "Culture", "2025-11-03 00:00:00", 20, 5, 2),
		},
		Medias: []types.Media{
			{Nom: "A", BaseURL: "https://a.bf", TypeMedia: "web"},
			{Nom: "B", BaseURL: "https://b.bf", TypeMedia: "web"},
			{Nom: "C", BaseURL: "https://c.bf", TypeMedia: "web"},
		},
	}
	a := newTestAnalyzer(snap)

	ranking, err := a.MediaRanking()
	if err != nil {
		t.Fatalf("MediaRanking: %v", err)
	}
	if len(ranking) != 3 {
		t.Fatalf("ranking = %d medias, want 3", len(ranking))
	}

	for i := range ranking {
		if ranking[i].Rang != i+1 {
			t.Errorf("rang[%d] = %d, want %d", i, ranking[i].Rang, i+1)
		}
		if i > 0 && ranking[i].ScoreInfluence > ranking[i-1].ScoreInfluence {
			t.Errorf("ranking not sorted at %d: %.2f > %.2f",
				i, ranking[i].ScoreInfluence, ranking[i-1].ScoreInfluence)
		}
	}

	// A dominates every sub-metric, so it must rank first.
	if ranking[0].Nom != "A" {
		t.Errorf("rank 1 = %s, want A", ranking[0].Nom)
	}
}

func TestMediaRankingDerivedCounts(t *testing.T) {
	snap := types.Snapshot{
		Articles: []types.Article{
			art("a1", "A", "Sport", "2025-11-01 00:00:00", 10, 5, 5),
			art("a2", "A", "Sport", "2025-11-02 00:00:00", 10, 0, 0),
			art("b1", "B", "Sport", "2025-11-03 00:00:00", 1, 0, 0),
		},
		Medias: []types.Media{
			// Stale derived fields must be fully recomputed, not reused.
			{Nom: "A", NbArticles: 99, EngagementTotal: 999, Rang: 42},
			{Nom: "B"},
		},
	}
	a := newTestAnalyzer(snap)

	ranking, _ := a.MediaRanking()
	for _, m := range ranking {
		switch m.Nom {
		case "A":
			if m.NbArticles != 2 || m.EngagementTotal != 30 {
				t.Errorf("A = %d articles / %d engagement, want 2 / 30", m.NbArticles, m.EngagementTotal)
			}
		case "B":
			if m.NbArticles != 1 || m.EngagementTotal != 1 {
				t.Errorf("B = %d articles / %d engagement, want 1 / 1", m.NbArticles, m.EngagementTotal)
			}
		}
	}
}

func TestMediaRankingActivityFlag(t *testing.T) {
	snap := types.Snapshot{
		Articles: []types.Article{
			art("fresh", "A", "Sport", "2025-11-10 00:00:00", 1, 0, 0),
			art("stale", "B", "Sport", "2025-01-01 00:00:00", 1, 0, 0),
		},
		Medias: []types.Media{{Nom: "A"}, {Nom: "B"}, {Nom: "C"}},
	}
	a := newTestAnalyzer(snap)

	ranking, _ := a.MediaRanking()
	flags := make(map[string]bool, len(ranking))
	for _, m := range ranking {
		flags[m.Nom] = m.Actif90j
	}

	// Window anchored at the newest article, 2025-11-10.
	if !flags["A"] {
		t.Error("A published within the window, want actif_90j = true")
	}
	if flags["B"] {
		t.Error("B last published in January, want actif_90j = false")
	}
	if flags["C"] {
		t.Error("C has no articles, want actif_90j = false")
	}
}

func TestMediaRankingSingleOutletMidpoint(t *testing.T) {
	snap := types.Snapshot{
		Articles: []types.Article{
			art("a1", "A", "Sport", "2025-11-01 00:00:00", 10, 2, 3),
		},
		Medias: []types.Media{{Nom: "A"}},
	}
	a := newTestAnalyzer(snap)

	ranking, _ := a.MediaRanking()
	if len(ranking) != 1 {
		t.Fatalf("ranking = %d, want 1", len(ranking))
	}
	// Every sub-metric degenerates to the midpoint 5, weights sum to 1.
	if got := ranking[0].ScoreInfluence; got != 5 {
		t.Errorf("single-outlet score = %.2f, want 5.00", got)
	}
	if ranking[0].Rang != 1 {
		t.Errorf("rang = %d, want 1", ranking[0].Rang)
	}
}

func TestMediaRankingEmptyRoster(t *testing.T) {
	a := newTestAnalyzer(types.Snapshot{})
	ranking, err := a.MediaRanking()
	if err != nil {
		t.Fatalf("MediaRanking: %v", err)
	}
	if len(ranking) != 0 {
		t.Errorf("ranking = %d, want 0", len(ranking))
	}
}
