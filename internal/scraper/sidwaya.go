package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// sidwaya scrapes Sidwaya, the state daily, a WordPress site on the
// tagDiv Newspaper theme. Dates come from <time datetime> in ISO form.
type sidwaya struct {
	src    config.Source
	logger *slog.Logger
}

func newSidwaya(src config.Source, logger *slog.Logger) Scraper {
	return &sidwaya{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *sidwaya) Key() string       { return s.src.Key }
func (s *sidwaya) MediaName() string { return s.src.Name }

func (s *sidwaya) ListingPages(maxPages int) []string {
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

func (s *sidwaya) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseNode(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	hrefs := xpAllAttr(doc, "href",
		`//h3[contains(@class, "entry-title") and contains(@class, "td-module-title")]//a`)

	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if u := absoluteURL(pageURL, href); u != "" {
			links = append(links, u)
		}
	}
	return dedupe(links), nil
}

func (s *sidwaya) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseNode(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := xpFirst(doc, `//h1[@class="entry-title"]`)
	if title == "" {
		title = xpFirstAttr(doc, "content", `//meta[@property="og:title"]`)
	}
	if title == "" {
		title = xpFirst(doc, `//h1`)
	}

	author := xpFirst(doc, `//div[@class="td-post-author-name"]//a`)
	if author == "" {
		author = xpFirstAttr(doc, "content", `//meta[@name="author"]`)
	}

	dateText := xpFirstAttr(doc, "datetime",
		`//time[@class="entry-date updated td-module-date"]`,
		`//time`)

	bodyParas := xpAll(doc, `//div[contains(@class, "td-post-content")]//p`)
	if len(bodyParas) == 0 {
		bodyParas = xpAll(doc, `//article//div[contains(@class, "entry-content")]//p`)
	}

	return &types.RawArticle{
		URL:            articleURL,
		Media:          s.src.Name,
		Title:          title,
		Author:         author,
		DateText:       dateText,
		FetchedAt:      fetchedAt.Format(normalize.CanonicalLayout),
		BodyParagraphs: bodyParas,
		ImageURL:       xpFirstAttr(doc, "content", `//meta[@property="og:image"]`),
		CategoryText:   xpFirst(doc, `//a[@class="td-post-category"]`),
		Tags:           xpAll(doc, `//ul[@class="td-tags"]//a`),
	}, nil
}
