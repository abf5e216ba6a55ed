package export

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fasowatch/mediascan/internal/analysis"
	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSnapshot() types.Snapshot {
	return types.Snapshot{
		Articles: []types.Article{
			{
				ID:        "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				Media:     "LeFaso.net",
				Titre:     "Le gouvernement annonce un plan agricole",
				Date:      "2025-11-15 00:00:00",
				URL:       "https://lefaso.net/spip.php?article1",
				Categorie: "Politique",
				Engagement: types.Engagement{
					Likes:        40,
					Partages:     10,
					Commentaires: 5,
				},
			},
			{
				ID:        "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
				Media:     "LeFaso.net",
				Titre:     "Attaque signalée dans le Sahel",
				Date:      "2025-11-14 00:00:00",
				URL:       "https://lefaso.net/spip.php?article2",
				Categorie: "Sécurité",
				Engagement: types.Engagement{
					Likes:        100,
					Partages:     50,
					Commentaires: 20,
				},
				Sensible:      true,
				ToxiciteScore: 0.62,
			},
			{
				ID:        "cccccccccccccccccccccccccccccccc",
				Media:     "Sidwaya",
				Titre:     "Les Étalons qualifiés",
				Date:      "2025-11-13 00:00:00",
				URL:       "https://sidwaya.info/article3",
				Categorie: "Sport",
				Engagement: types.Engagement{
					Likes:        200,
					Partages:     80,
					Commentaires: 30,
				},
			},
		},
		Medias: []types.Media{
			{Nom: "LeFaso.net", TypeMedia: "web"},
			{Nom: "Sidwaya", TypeMedia: "web"},
		},
	}
}

func newTestExporter(snap types.Snapshot) *Exporter {
	a := analysis.New(config.DefaultConfig().Analysis, testLogger)
	a.Load(snap)
	e := New(a, testLogger)
	e.now = func() time.Time {
		return time.Date(2025, 11, 16, 14, 30, 0, 0, time.UTC)
	}
	return e
}

func TestExportBeforeLoadFails(t *testing.T) {
	a := analysis.New(config.DefaultConfig().Analysis, testLogger)
	e := New(a, testLogger)

	var buf bytes.Buffer
	if err := e.WriteArticlesCSV(&buf); err != types.ErrNoSnapshot {
		t.Errorf("WriteArticlesCSV err = %v, want ErrNoSnapshot", err)
	}
	if err := e.WriteJSON(&buf); err != types.ErrNoSnapshot {
		t.Errorf("WriteJSON err = %v, want ErrNoSnapshot", err)
	}
	if err := e.WriteExcel(&buf); err != types.ErrNoSnapshot {
		t.Errorf("WriteExcel err = %v, want ErrNoSnapshot", err)
	}
	if err := e.WritePDF(&buf); err != types.ErrNoSnapshot {
		t.Errorf("WritePDF err = %v, want ErrNoSnapshot", err)
	}
}

func TestArticlesCSVRoundTrip(t *testing.T) {
	e := newTestExporter(testSnapshot())

	var buf bytes.Buffer
	if err := e.WriteArticlesCSV(&buf); err != nil {
		t.Fatalf("WriteArticlesCSV: %v", err)
	}

	got, err := ReadArticlesCSV(&buf)
	if err != nil {
		t.Fatalf("ReadArticlesCSV: %v", err)
	}
	want := testSnapshot().Articles
	if len(got) != len(want) {
		t.Fatalf("got %d articles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("article %d: ID = %q, want %q", i, got[i].ID, want[i].ID)
		}
		if got[i].Engagement != want[i].Engagement {
			t.Errorf("article %d: engagement = %+v, want %+v", i, got[i].Engagement, want[i].Engagement)
		}
		if got[i].Sensible != want[i].Sensible || got[i].ToxiciteScore != want[i].ToxiciteScore {
			t.Errorf("article %d: classification lost in round trip", i)
		}
	}

	// Global stats recomputed over the parsed articles must match the
	// stats of the exported snapshot.
	orig, err := e.analyzer.GlobalStats()
	if err != nil {
		t.Fatalf("GlobalStats: %v", err)
	}
	reread := analysis.New(config.DefaultConfig().Analysis, testLogger)
	reread.Load(types.Snapshot{Articles: got, Medias: testSnapshot().Medias})
	stats, err := reread.GlobalStats()
	if err != nil {
		t.Fatalf("GlobalStats after round trip: %v", err)
	}
	if stats != orig {
		t.Errorf("round-trip stats = %+v, want %+v", stats, orig)
	}
}

func TestReadArticlesCSVMissingColumn(t *testing.T) {
	in := "id,media,titre\naaa,LeFaso.net,Titre\n"
	if _, err := ReadArticlesCSV(strings.NewReader(in)); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestWriteExcelSheets(t *testing.T) {
	e := newTestExporter(testSnapshot())

	var buf bytes.Buffer
	if err := e.WriteExcel(&buf); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	want := []string{
		"Statistiques Globales",
		"Classement Médias",
		"Articles par Catégorie",
		"Articles par Média",
		"Engagement par Catégorie",
		"Top Articles",
		"Contenus Sensibles",
		"Tous les Articles",
	}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	rows, err := f.GetRows("Tous les Articles")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("article rows = %d, want header + 3", len(rows))
	}
}

func TestWriteJSONReport(t *testing.T) {
	e := newTestExporter(testSnapshot())

	var buf bytes.Buffer
	if err := e.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got struct {
		GeneratedAt string                   `json:"generated_at"`
		ReportType  string                   `json:"report_type"`
		GlobalStats analysis.GlobalStats     `json:"global_stats"`
		Dist        map[string]int           `json:"category_distribution"`
		ByCategory  []analysis.CategoryStats `json:"articles_by_category"`
		Ranking     []struct {
			Rang int    `json:"rang"`
			Nom  string `json:"nom"`
		} `json:"media_ranking"`
		Sensitive []analysis.SensitiveArticle `json:"sensitive_articles"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ReportType != "media_analysis" {
		t.Errorf("report_type = %q", got.ReportType)
	}
	if got.GeneratedAt != "2025-11-16T14:30:00Z" {
		t.Errorf("generated_at = %q", got.GeneratedAt)
	}
	if got.GlobalStats.TotalArticles != 3 || got.GlobalStats.TotalMedias != 2 {
		t.Errorf("global_stats = %+v", got.GlobalStats)
	}
	if got.GlobalStats.TotalEngagement != 535 {
		t.Errorf("total_engagement = %d, want 535", got.GlobalStats.TotalEngagement)
	}
	if got.Dist["Politique"] != 1 || got.Dist["Sécurité"] != 1 || got.Dist["Sport"] != 1 {
		t.Errorf("category_distribution = %v", got.Dist)
	}
	if got.Dist["Santé"] != 0 || len(got.Dist) != 9 {
		t.Errorf("category_distribution not zero-filled over the label set: %v", got.Dist)
	}
	if len(got.ByCategory) != 3 {
		t.Errorf("articles_by_category = %+v", got.ByCategory)
	}
	if len(got.Ranking) != 2 || got.Ranking[0].Rang != 1 {
		t.Errorf("media_ranking = %+v", got.Ranking)
	}
	if len(got.Sensitive) != 1 || got.Sensitive[0].ToxiciteScore != 0.62 {
		t.Errorf("sensitive_articles = %+v", got.Sensitive)
	}
}

func TestWritePDF(t *testing.T) {
	e := newTestExporter(testSnapshot())

	var buf bytes.Buffer
	if err := e.WritePDF(&buf); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
}
