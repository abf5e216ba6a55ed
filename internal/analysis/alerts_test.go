package analysis

import (
	"testing"

	"github.com/fasowatch/mediascan/internal/types"
)

func comments(total, sensibles int, scores ...float64) []types.Comment {
	out := make([]types.Comment, total)
	for i := 0; i < sensibles && i < total; i++ {
		out[i].Sensible = true
	}
	for i, s := range scores {
		if i < total {
			out[i].ToxiciteScore = s
		}
	}
	return out
}

func TestClassifyCommentsTiers(t *testing.T) {
	tests := []struct {
		name     string
		comments []types.Comment
		wantType string
		wantOK   bool
	}{
		{
			// 11 comments, none flagged, none above 0.8: volume only.
			name:     "mass",
			comments: comments(11, 0, 0.2, 0.5),
			wantType: AlertMass,
			wantOK:   true,
		},
		{
			// 3 comments, 1 flagged sensitive: critical.
			name:     "critical",
			comments: comments(3, 1),
			wantType: AlertCritical,
			wantOK:   true,
		},
		{
			// 15 comments, 2 flagged: both conditions hold.
			name:     "critical_mass",
			comments: comments(15, 2),
			wantType: AlertCriticalMass,
			wantOK:   true,
		},
		{
			// 5 comments, none flagged, max toxicity 0.4: no alert.
			name:     "none",
			comments: comments(5, 0, 0.4, 0.1),
			wantOK:   false,
		},
		{
			// High toxicity alone triggers critical even without the flag.
			name:     "critical_by_toxicity",
			comments: comments(2, 0, 0.85),
			wantType: AlertCritical,
			wantOK:   true,
		},
		{
			// Exactly 10 comments is not mass; the threshold is strict.
			name:     "ten_comments_no_mass",
			comments: comments(10, 0),
			wantOK:   false,
		},
		{
			// Exactly 0.8 toxicity is not highly toxic; above is.
			name:     "toxicity_boundary",
			comments: comments(2, 0, 0.8),
			wantOK:   false,
		},
		{
			name:     "no_comments",
			comments: nil,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := types.Article{ID: "x", Comments: tt.comments}
			alert, ok := ClassifyComments(&a)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && alert.Type != tt.wantType {
				t.Errorf("type = %q, want %q", alert.Type, tt.wantType)
			}
		})
	}
}

func TestClassifyCommentsCounters(t *testing.T) {
	a := types.Article{
		ID: "c",
		Comments: []types.Comment{
			{Sensible: true, ToxiciteScore: 0.95},
			{ToxiciteScore: 0.85},
			{ToxiciteScore: 0.2},
		},
	}

	alert, ok := ClassifyComments(&a)
	if !ok {
		t.Fatal("expected an alert")
	}
	if alert.NbSensibles != 1 {
		t.Errorf("NbSensibles = %d, want 1", alert.NbSensibles)
	}
	if alert.NbHighlyToxic != 2 {
		t.Errorf("NbHighlyToxic = %d, want 2", alert.NbHighlyToxic)
	}
	if alert.NbComments != 3 {
		t.Errorf("NbComments = %d, want 3", alert.NbComments)
	}
	if alert.MaxToxicity != 0.95 {
		t.Errorf("MaxToxicity = %.2f, want 0.95", alert.MaxToxicity)
	}
}

func TestCommentAlertsOrdering(t *testing.T) {
	snap := types.Snapshot{
		Articles: []types.Article{
			{ID: "mass", Media: "A", Comments: comments(12, 0)},
			{ID: "crit_low", Media: "A", Comments: comments(2, 1, 0.5)},
			{ID: "critmass", Media: "A", Comments: comments(20, 1, 0.6)},
			{ID: "crit_high", Media: "A", Comments: comments(2, 1, 0.9)},
			{ID: "clean", Media: "A", Comments: comments(3, 0)},
		},
		Medias: []types.Media{{Nom: "A"}},
	}
	a := newTestAnalyzer(snap)

	alerts, err := a.CommentAlerts()
	if err != nil {
		t.Fatalf("CommentAlerts: %v", err)
	}

	want := []string{"critmass", "crit_high", "crit_low", "mass"}
	if len(alerts) != len(want) {
		t.Fatalf("alerts = %d, want %d", len(alerts), len(want))
	}
	for i, id := range want {
		if alerts[i].ArticleID != id {
			t.Errorf("alerts[%d] = %s, want %s", i, alerts[i].ArticleID, id)
		}
	}
}
