package scraper

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// feed is the generic adapter for outlets without a dedicated scraper
// but with an RSS or Atom feed. Item metadata from the feed fills in
// what the article page markup cannot be relied on for.
type feed struct {
	src    config.Source
	logger *slog.Logger
	parser *gofeed.Parser

	mu    sync.Mutex
	items map[string]*gofeed.Item
}

func newFeed(src config.Source, logger *slog.Logger) Scraper {
	return &feed{
		src:    src,
		logger: logger.With("scraper", src.Key),
		parser: gofeed.NewParser(),
		items:  make(map[string]*gofeed.Item),
	}
}

func (s *feed) Key() string       { return s.src.Key }
func (s *feed) MediaName() string { return s.src.Name }

func (s *feed) ListingPages(maxPages int) []string {
	return []string{s.src.FeedURL}
}

// ArticleLinks parses the feed document and remembers each item so
// Extract can reuse its metadata.
func (s *feed) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	parsed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		u := absoluteURL(pageURL, item.Link)
		if u == "" {
			continue
		}
		s.items[u] = item
		links = append(links, u)
	}
	return dedupe(links), nil
}

func (s *feed) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	s.mu.Lock()
	item := s.items[articleURL]
	s.mu.Unlock()

	raw := &types.RawArticle{
		URL:       articleURL,
		Media:     s.src.Name,
		FetchedAt: fetchedAt.Format(normalize.CanonicalLayout),
	}

	if item != nil {
		raw.Title = item.Title
		if item.PublishedParsed != nil {
			raw.DateText = item.PublishedParsed.Format(normalize.CanonicalLayout)
		} else {
			raw.DateText = item.Published
		}
		if item.Description != "" {
			raw.BodyParagraphs = []string{item.Description}
		}
		for _, c := range item.Categories {
			raw.Tags = append(raw.Tags, c)
		}
		if len(item.Categories) > 0 {
			raw.CategoryText = item.Categories[0]
		}
		if item.Image != nil {
			raw.ImageURL = item.Image.URL
		}
		if item.Author != nil {
			raw.Author = item.Author.Name
		}
	}

	// The article page itself still overrides feed metadata where the
	// generic markup is usable.
	if doc, err := parseDoc(body); err == nil {
		if t := firstAttr(doc, "content", `meta[property="og:title"]`); t != "" {
			raw.Title = t
		}
		if d := firstAttr(doc, "content", `meta[property="article:published_time"]`); d != "" {
			raw.DateText = d
		}
		if img := firstAttr(doc, "content", `meta[property="og:image"]`); img != "" {
			raw.ImageURL = img
		}
		if paras := paragraphs(doc, "article p"); len(paras) > 0 {
			raw.BodyParagraphs = paras
		}
	}

	if raw.Title == "" && raw.DateText == "" && len(raw.BodyParagraphs) == 0 {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: types.ErrEmptyResponse}
	}
	return raw, nil
}
