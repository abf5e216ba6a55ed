// Package scraper holds the per-site extraction adapters and the runner
// that drives them. Each adapter knows the listing layout and article
// markup of one outlet and produces RawArticle records; everything after
// that (normalization, aggregation) is source-agnostic.
package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/types"
)

// Scraper extracts articles from one media outlet.
type Scraper interface {
	// Key is the roster key of the outlet, e.g. "lefaso".
	Key() string
	// MediaName is the display name carried on every extracted article.
	MediaName() string
	// ListingPages returns the listing-page URLs to crawl, already
	// expanded for pagination up to maxPages per section.
	ListingPages(maxPages int) []string
	// ArticleLinks extracts article URLs from a fetched listing page.
	ArticleLinks(body []byte, pageURL string) ([]string, error)
	// Extract parses one article page into a RawArticle.
	Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error)
}

type factory func(config.Source, *slog.Logger) Scraper

var registry = map[string]factory{
	"lefaso":             newLefaso,
	"burkina_24":         newBurkina24,
	"sidwaya":            newSidwaya,
	"aib":                newAIB,
	"fasopresse":         newFasoPresse,
	"observateur_paalga": newLObservateur,
}

// New returns the adapter for a roster source. Sources without a
// dedicated adapter fall back to their RSS feed when one is declared.
func New(src config.Source, logger *slog.Logger) (Scraper, error) {
	if f, ok := registry[src.Key]; ok {
		return f(src, logger), nil
	}
	if src.FeedURL != "" {
		return newFeed(src, logger), nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrUnknownSource, src.Key)
}

// Keys lists the registered adapter keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats tracks extraction counters across a run.
type Stats struct {
	PagesFetched    atomic.Int64
	PagesFailed     atomic.Int64
	ArticlesFound   atomic.Int64
	ArticlesScraped atomic.Int64
	ArticlesFailed  atomic.Int64
	BytesDownloaded atomic.Int64
}

// Snapshot returns all counters as a map, for logging and the dashboard.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_fetched":    s.PagesFetched.Load(),
		"pages_failed":     s.PagesFailed.Load(),
		"articles_found":   s.ArticlesFound.Load(),
		"articles_scraped": s.ArticlesScraped.Load(),
		"articles_failed":  s.ArticlesFailed.Load(),
		"bytes_downloaded": s.BytesDownloaded.Load(),
	}
}

// parseDoc parses an HTML body into a goquery document.
func parseDoc(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(string(body)))
}

// absoluteURL resolves href against base, dropping fragments and
// non-HTTP schemes.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	u, err := b.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

// dedupe keeps the first occurrence of each link, preserving order.
func dedupe(links []string) []string {
	seen := make(map[string]bool, len(links))
	out := links[:0]
	for _, l := range links {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// firstText returns the trimmed text of the first match among selectors.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

// firstAttr returns the trimmed attribute of the first match among selectors.
func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// paragraphs collects the trimmed text of every match of sel.
func paragraphs(doc *goquery.Document, sel string) []string {
	var out []string
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
