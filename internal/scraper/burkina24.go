package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// burkina24 scrapes Burkina24, a WordPress site on the Jannah theme.
// Publication dates are often relative ("il y a 3 heures").
type burkina24 struct {
	src    config.Source
	logger *slog.Logger
}

func newBurkina24(src config.Source, logger *slog.Logger) Scraper {
	return &burkina24{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *burkina24) Key() string       { return s.src.Key }
func (s *burkina24) MediaName() string { return s.src.Name }

func (s *burkina24) ListingPages(maxPages int) []string {
	if maxPages < 1 {
		maxPages = 1
	}
	sections := sortedRubrics(s.src.Rubrics)
	if len(sections) == 0 {
		sections = []string{s.src.BaseURL}
	}
	var pages []string
	for _, section := range sections {
		for page := 1; page <= maxPages; page++ {
			if page == 1 {
				pages = append(pages, section)
				continue
			}
			pages = append(pages, fmt.Sprintf("%s/page/%d/", trimSlash(section), page))
		}
	}
	return pages
}

func (s *burkina24) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	var links []string
	doc.Find(`li[class*="post-item"] h2.post-title a`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if u := absoluteURL(pageURL, href); u != "" {
			links = append(links, u)
		}
	})
	return dedupe(links), nil
}

func (s *burkina24) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := firstText(doc, "h1.post-title.entry-title", `h1[class*="entry-title"]`)
	if title == "" {
		title = firstAttr(doc, "content", `meta[property="og:title"]`)
	}

	author := firstText(doc, "span.meta-author a.author-name", `a[rel="author"]`)
	if author == "" {
		author = firstAttr(doc, "content", `meta[name="author"]`)
	}

	dateText := firstText(doc, `span.date.meta-item`)
	if dateText == "" {
		dateText = firstAttr(doc, "datetime", "time.entry-date.published")
	}
	if dateText == "" {
		dateText = firstAttr(doc, "content", `meta[property="article:published_time"]`)
	}

	body24 := paragraphs(doc, `div[class*="entry-content"] p`)
	if len(body24) == 0 {
		body24 = paragraphs(doc, "article div.entry-content p")
	}

	category := firstText(doc, "span.post-cat-wrap a", "div.post-categories a")

	var tags []string
	doc.Find("div.post-tags a, span.tags-links a").Each(func(_ int, a *goquery.Selection) {
		if t := a.Text(); t != "" {
			tags = append(tags, t)
		}
	})

	return &types.RawArticle{
		URL:            articleURL,
		Media:          s.src.Name,
		Title:          title,
		Author:         author,
		DateText:       dateText,
		FetchedAt:      fetchedAt.Format(normalize.CanonicalLayout),
		BodyParagraphs: body24,
		ImageURL:       firstAttr(doc, "content", `meta[property="og:image"]`),
		CategoryText:   category,
		Tags:           tags,
	}, nil
}

func trimSlash(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}
