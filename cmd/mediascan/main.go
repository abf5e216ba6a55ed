package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fasowatch/mediascan/internal/analysis"
	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/dashboard"
	"github.com/fasowatch/mediascan/internal/fetch"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/scraper"
	"github.com/fasowatch/mediascan/internal/store"
	"github.com/fasowatch/mediascan/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	sourcesFile string
	maxPages    int
	concurrency int
	delay       string
	useBrowser  bool
	onlySources []string
	chainAll    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediascan",
		Short: "MEDIASCAN — observatoire des médias burkinabè",
		Long: `MEDIASCAN collects news articles from Burkinabè media websites,
normalizes them into a canonical schema, derives engagement and influence
metrics, and serves the results through an analytics dashboard.

Supported outlets: LeFaso.net, Burkina 24, Sidwaya, AIB, FasoPresse,
L'Observateur Paalga, plus any outlet exposing an RSS feed.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect articles from the configured media sources",
		Long: `Collect articles from every enabled source in the roster, normalize
them into the canonical schema and persist the resulting snapshot.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&sourcesFile, "sources", "", "sources roster file (default: built-in roster)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum listing pages per rubric (0 = config default)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "number of concurrent workers (0 = config default)")
	cmd.Flags().StringVar(&delay, "delay", "", "politeness delay between requests")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "fetch with a headless browser instead of plain HTTP")
	cmd.Flags().StringSliceVar(&onlySources, "only", nil, "restrict collection to these source keys")
	cmd.Flags().BoolVar(&chainAll, "all", false, "after scraping, write all reports and serve the dashboard")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources, err := loadSources(cfg, logger)
	if err != nil {
		return err
	}
	enabled := config.EnabledSources(sources)
	if len(onlySources) > 0 {
		enabled = filterSources(enabled, onlySources)
	}
	if len(enabled) == 0 {
		return fmt.Errorf("no enabled sources to scrape")
	}

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer fetcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting collection",
		"sources", len(enabled),
		"concurrency", cfg.Scrape.Concurrency,
		"max_pages", cfg.Scrape.MaxPages,
		"fetcher", fetcher.Type(),
	)

	runner := scraper.NewRunner(cfg, fetcher, logger)
	start := time.Now()
	snap, err := runner.Run(ctx, enabled)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	st, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()
	if err := st.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	elapsed := time.Since(start)
	stats := runner.Stats().Snapshot()
	fmt.Printf("Collection terminée en %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Pages:    %d récupérées, %d en échec\n", stats["pages_fetched"], stats["pages_failed"])
	fmt.Printf("  Articles: %d extraits, %d en échec\n", stats["articles_scraped"], stats["articles_failed"])
	fmt.Printf("  Données:  %s octets téléchargés\n", normalize.FormatNumber(int(stats["bytes_downloaded"])))
	fmt.Printf("  Stockage: %s\n", st.Name())

	if !chainAll {
		return nil
	}

	analyzer := analysis.New(cfg.Analysis, logger)
	analyzer.Load(*snap)
	if err := writeReports(analyzer, logger, reportDir, "all"); err != nil {
		return err
	}
	return dashboard.New(cfg.Dashboard, analyzer, st, logger).Run(ctx)
}

// importCmd creates the "import" subcommand.
func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a snapshot from a JSON or CSV file",
		Long: `Import previously collected data into storage. JSON files must hold a
full snapshot (articles plus media roster); CSV files hold the flat
article table and the roster is rebuilt from the article set.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	return cmd
}

// statsCmd creates the "stats" subcommand.
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print global statistics and the media ranking",
		RunE:  runStats,
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics dashboard",
		Long: `Serve the analytics API and dashboard over HTTP. The latest stored
snapshot is loaded at startup; POST /api/reload picks up newer data
without a restart.`,
		RunE: runServe,
	}
	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 = config default)")
	return cmd
}

var servePort int

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Dashboard.Port = servePort
	}

	st, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := analysis.New(cfg.Analysis, logger)
	snap, err := st.Load(ctx)
	switch {
	case err == nil:
		analyzer.Load(*snap)
	case errors.Is(err, types.ErrSnapshotNotFound):
		logger.Warn("no stored snapshot, dashboard starts empty", "storage", st.Name())
	default:
		return fmt.Errorf("load snapshot: %w", err)
	}

	return dashboard.New(cfg.Dashboard, analyzer, st, logger).Run(ctx)
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := readSnapshotFile(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()
	if err := st.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	fmt.Printf("Import terminé: %d articles, %d médias (stockage: %s)\n",
		len(snap.Articles), len(snap.Medias), st.Name())
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	analyzer, closeStore, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer closeStore()

	g, err := analyzer.GlobalStats()
	if err != nil {
		return err
	}
	ranking, err := analyzer.MediaRanking()
	if err != nil {
		return err
	}

	fmt.Printf("Articles:        %d\n", g.TotalArticles)
	fmt.Printf("Médias:          %d\n", g.TotalMedias)
	fmt.Printf("Engagement:      %s (likes %s, partages %s, commentaires %s)\n",
		normalize.FormatNumber(g.TotalEngagement), normalize.FormatNumber(g.TotalLikes),
		normalize.FormatNumber(g.TotalPartages), normalize.FormatNumber(g.TotalCommentaires))
	fmt.Printf("Sensibles:       %d (%.1f%%)\n\n", g.ArticlesSensibles, g.TauxSensible)

	fmt.Println("Classement des médias:")
	for _, m := range ranking {
		actif := "non"
		if m.Actif90j {
			actif = "oui"
		}
		fmt.Printf("  %2d. %-28s %4d articles  score %5.2f  actif 90j: %s\n",
			m.Rang, m.Nom, m.NbArticles, m.ScoreInfluence, actif)
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mediascan %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Scrape:\n")
			fmt.Printf("  Concurrency:       %d\n", cfg.Scrape.Concurrency)
			fmt.Printf("  Max Pages:         %d\n", cfg.Scrape.MaxPages)
			fmt.Printf("  Download Delay:    %s\n", cfg.Scrape.DownloadDelay)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Scrape.RequestTimeout)
			fmt.Printf("  Sources File:      %s\n", cfg.Scrape.SourcesFile)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Backend:           %s\n", cfg.Storage.Backend)
			fmt.Printf("  Snapshot File:     %s\n", cfg.Storage.SnapshotFile)
			fmt.Printf("  SQLite Path:       %s\n", cfg.Storage.SQLitePath)
			fmt.Printf("\nAnalysis:\n")
			fmt.Printf("  Toxicity Threshold: %.2f\n", cfg.Analysis.ToxicityThreshold)
			fmt.Printf("  Timeline Days:      %d\n", cfg.Analysis.TimelineDays)
			fmt.Printf("  Activity Window:    %d days\n", cfg.Analysis.ActivityWindowDays)
			fmt.Printf("\nDashboard:\n")
			fmt.Printf("  Port:              %d\n", cfg.Dashboard.Port)
			fmt.Printf("  Mode:              %s\n", cfg.Dashboard.Mode)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// loadConfig reads the config file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if sourcesFile != "" {
		cfg.Scrape.SourcesFile = sourcesFile
	}
	if maxPages > 0 {
		cfg.Scrape.MaxPages = maxPages
	}
	if concurrency > 0 {
		cfg.Scrape.Concurrency = concurrency
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Scrape.DownloadDelay = d
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadSources reads the roster file, falling back to the built-in roster
// when the file does not exist.
func loadSources(cfg *config.Config, logger *slog.Logger) ([]config.Source, error) {
	sources, err := config.LoadSources(cfg.Scrape.SourcesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no sources file, using built-in roster", "path", cfg.Scrape.SourcesFile)
			return config.DefaultSources(), nil
		}
		return nil, err
	}
	return sources, nil
}

func filterSources(sources []config.Source, keys []string) []config.Source {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	out := make([]config.Source, 0, len(sources))
	for _, s := range sources {
		if _, ok := want[s.Key]; ok {
			out = append(out, s)
		}
	}
	return out
}

func newFetcher(cfg *config.Config, logger *slog.Logger) (fetch.Fetcher, error) {
	if useBrowser {
		return fetch.NewBrowserFetcher(cfg, logger, fetch.WithStealth())
	}
	return fetch.NewHTTPFetcher(cfg, logger)
}

// loadAnalyzer opens storage, loads the stored snapshot and returns a
// ready analyzer plus a close function for the store.
func loadAnalyzer() (*analysis.Analyzer, func(), error) {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	snap, err := st.Load(ctx)
	if err != nil {
		st.Close()
		if errors.Is(err, types.ErrSnapshotNotFound) {
			return nil, nil, fmt.Errorf("no stored snapshot, run \"mediascan scrape\" or \"mediascan import\" first")
		}
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}

	analyzer := analysis.New(cfg.Analysis, logger)
	analyzer.Load(*snap)
	return analyzer, func() { st.Close() }, nil
}
