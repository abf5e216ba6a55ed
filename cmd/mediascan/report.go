package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fasowatch/mediascan/internal/analysis"
	"github.com/fasowatch/mediascan/internal/export"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

var (
	reportDir    string
	reportFormat string
)

// reportCmd creates the "report" subcommand.
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate analysis reports from the stored snapshot",
		Long: `Generate reports from the latest stored snapshot. Formats: csv (flat
article table), excel (full workbook), pdf (narrative report), json
(machine-readable report), or all.`,
		RunE: runReport,
	}

	cmd.Flags().StringVarP(&reportDir, "out", "o", "exports", "output directory")
	cmd.Flags().StringVarP(&reportFormat, "format", "f", "all", "report format: csv, excel, pdf, json, all")

	return cmd
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Print the full analysis report as JSON",
		Long: `Run every aggregation over the stored snapshot and print the complete
report to standard output as JSON. Same payload as the json report file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, closeStore, err := loadAnalyzer()
			if err != nil {
				return err
			}
			defer closeStore()
			return export.New(analyzer, setupLogger()).WriteJSON(os.Stdout)
		},
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	analyzer, closeStore, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer closeStore()

	return writeReports(analyzer, setupLogger(), reportDir, reportFormat)
}

// writeReports renders the requested formats into dir, one timestamped
// file per format.
func writeReports(analyzer *analysis.Analyzer, logger *slog.Logger, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	exporter := export.New(analyzer, logger)
	stamp := time.Now().Format("20060102_150405")

	writers := map[string]struct {
		ext   string
		write func(w io.Writer) error
	}{
		"csv":   {"csv", exporter.WriteArticlesCSV},
		"excel": {"xlsx", exporter.WriteExcel},
		"pdf":   {"pdf", exporter.WritePDF},
		"json":  {"json", exporter.WriteJSON},
	}

	var formats []string
	if format == "all" {
		for k := range writers {
			formats = append(formats, k)
		}
		sort.Strings(formats)
	} else {
		for _, f := range strings.Split(format, ",") {
			f = strings.TrimSpace(strings.ToLower(f))
			if _, ok := writers[f]; !ok {
				return fmt.Errorf("unknown report format %q", f)
			}
			formats = append(formats, f)
		}
	}

	for _, name := range formats {
		w := writers[name]
		path := filepath.Join(dir, fmt.Sprintf("mediascan_report_%s.%s", stamp, w.ext))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s report: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		fmt.Printf("Rapport %s: %s\n", name, path)
	}
	return nil
}

// readSnapshotFile parses an import file. JSON files hold a full
// snapshot; CSV files hold the flat article table and the media roster
// is rebuilt from the articles.
func readSnapshotFile(path string) (*types.Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var snap types.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(snap.Articles) == 0 {
			return nil, fmt.Errorf("%s holds no articles", path)
		}
		normalizeCategories(snap.Articles)
		if len(snap.Medias) == 0 {
			snap.Medias = rosterFromArticles(snap.Articles)
		}
		return &snap, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		articles, err := export.ReadArticlesCSV(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(articles) == 0 {
			return nil, fmt.Errorf("%s holds no articles", path)
		}
		normalizeCategories(articles)
		return &types.Snapshot{
			Articles: articles,
			Medias:   rosterFromArticles(articles),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported import format %q, want .json or .csv", filepath.Ext(path))
	}
}

// normalizeCategories maps raw category strings in imported data onto
// the standard label set. Already-standard labels pass through.
func normalizeCategories(articles []types.Article) {
	for i := range articles {
		if !normalize.ValidLabel(articles[i].Categorie) {
			articles[i].Categorie = normalize.Label(articles[i].Categorie)
		}
	}
}

// rosterFromArticles derives a minimal media roster from the article set.
// Derived counters are recomputed by the analyzer, only names matter.
func rosterFromArticles(articles []types.Article) []types.Media {
	seen := make(map[string]struct{})
	var medias []types.Media
	for i := range articles {
		name := articles[i].Media
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		medias = append(medias, types.Media{Nom: name, TypeMedia: "web"})
	}
	sort.Slice(medias, func(i, j int) bool { return medias[i].Nom < medias[j].Nom })
	return medias
}
