package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/fetch"
	"github.com/fasowatch/mediascan/internal/format"
	"github.com/fasowatch/mediascan/internal/types"
)

// Runner drives a full collection pass: listing discovery per source,
// then article fetches through a shared worker pool. Extraction is
// best-effort; a failed page is counted and skipped, never fatal.
type Runner struct {
	cfg       *config.Config
	fetcher   fetch.Fetcher
	formatter *format.Formatter
	logger    *slog.Logger
	stats     Stats
}

// NewRunner creates a Runner using the given fetcher.
func NewRunner(cfg *config.Config, fetcher fetch.Fetcher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		fetcher:   fetcher,
		formatter: format.New(logger),
		logger:    logger.With("component", "runner"),
	}
}

// Stats exposes the run counters.
func (r *Runner) Stats() *Stats { return &r.stats }

type job struct {
	scraper Scraper
	url     string
}

// Run crawls the given sources and returns the collected snapshot:
// formatted articles plus the media roster. Articles are deduplicated
// by URL across sources.
func (r *Runner) Run(ctx context.Context, sources []config.Source) (*types.Snapshot, error) {
	start := time.Now()

	jobs := make(chan job, r.cfg.Scrape.Concurrency*2)
	var (
		mu       sync.Mutex
		articles []types.Article
		seen     = make(map[string]bool)
	)

	concurrency := r.cfg.Scrape.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				art, ok := r.scrapeArticle(ctx, j)
				if !ok {
					continue
				}
				mu.Lock()
				if !seen[art.ID] {
					seen[art.ID] = true
					articles = append(articles, *art)
				}
				mu.Unlock()
			}
		}()
	}

	// Listing discovery runs source by source so each outlet sees at
	// most one listing request per delay interval.
	medias := make([]types.Media, 0, len(sources))
	for _, src := range sources {
		medias = append(medias, types.Media{
			Nom:       src.Name,
			BaseURL:   src.BaseURL,
			TypeMedia: src.TypeMedia,
		})

		sc, err := New(src, r.logger)
		if err != nil {
			r.logger.Warn("no adapter for source, skipping", "source", src.Key, "error", err)
			continue
		}
		r.discover(ctx, sc, jobs)
	}

	close(jobs)
	wg.Wait()

	snap := &types.Snapshot{Articles: articles, Medias: medias}
	r.logger.Info("collection pass complete",
		"sources", len(sources),
		"articles", len(articles),
		"duration", time.Since(start).Round(time.Millisecond),
		"stats", r.stats.Snapshot(),
	)
	return snap, ctx.Err()
}

// discover fetches the listing pages of one source and queues the
// article links it finds.
func (r *Runner) discover(ctx context.Context, sc Scraper, jobs chan<- job) {
	queued := make(map[string]bool)
	for _, pageURL := range sc.ListingPages(r.cfg.Scrape.MaxPages) {
		if ctx.Err() != nil {
			return
		}

		resp, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			r.stats.PagesFailed.Add(1)
			r.logger.Warn("listing fetch failed", "scraper", sc.Key(), "url", pageURL, "error", err)
			continue
		}
		r.stats.PagesFetched.Add(1)
		r.stats.BytesDownloaded.Add(int64(len(resp.Body)))

		links, err := sc.ArticleLinks(resp.Body, pageURL)
		if err != nil {
			r.stats.PagesFailed.Add(1)
			r.logger.Warn("listing parse failed", "scraper", sc.Key(), "url", pageURL, "error", err)
			continue
		}

		for _, link := range links {
			if queued[link] {
				continue
			}
			queued[link] = true
			r.stats.ArticlesFound.Add(1)
			select {
			case jobs <- job{scraper: sc, url: link}:
			case <-ctx.Done():
				return
			}
		}

		r.sleep(ctx)
	}
}

// scrapeArticle fetches, extracts and formats one article.
func (r *Runner) scrapeArticle(ctx context.Context, j job) (*types.Article, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	r.sleep(ctx)

	resp, err := r.fetcher.Fetch(ctx, j.url)
	if err != nil {
		r.stats.ArticlesFailed.Add(1)
		r.logger.Warn("article fetch failed", "scraper", j.scraper.Key(), "url", j.url, "error", err)
		return nil, false
	}
	r.stats.BytesDownloaded.Add(int64(len(resp.Body)))

	raw, err := j.scraper.Extract(resp.Body, j.url, resp.FetchedAt)
	if err != nil {
		r.stats.ArticlesFailed.Add(1)
		r.logger.Warn("article extract failed", "scraper", j.scraper.Key(), "url", j.url, "error", err)
		return nil, false
	}

	art := r.formatter.Format(*raw)
	r.stats.ArticlesScraped.Add(1)
	return &art, true
}

// sleep applies the politeness delay with jitter.
func (r *Runner) sleep(ctx context.Context) {
	d := fetch.RandomDelay(r.cfg.Scrape.DownloadDelay)
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
