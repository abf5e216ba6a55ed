package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// aib scrapes the Agence d'Information du Burkina wire. Same tagDiv
// Newspaper family as Sidwaya but with more layout variants, so every
// lookup carries fallback expressions.
type aib struct {
	src    config.Source
	logger *slog.Logger
}

func newAIB(src config.Source, logger *slog.Logger) Scraper {
	return &aib{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *aib) Key() string       { return s.src.Key }
func (s *aib) MediaName() string { return s.src.Name }

func (s *aib) ListingPages(maxPages int) []string {
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

func (s *aib) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseNode(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	hrefs := xpAllAttr(doc, "href",
		`//h3[contains(@class, "entry-title") and contains(@class, "td-module-title")]//a`)
	if len(hrefs) == 0 {
		hrefs = xpAllAttr(doc, "href",
			`//div[contains(@class, "td_module")]//h3[@class="entry-title td-module-title"]//a`)
	}

	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if u := absoluteURL(pageURL, href); u != "" {
			links = append(links, u)
		}
	}
	return dedupe(links), nil
}

func (s *aib) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseNode(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := xpFirst(doc,
		`//h1[@class="entry-title"]`,
		`//h1[contains(@class, "tdb-title-text")]`)
	if title == "" {
		title = xpFirstAttr(doc, "content", `//meta[@property="og:title"]`)
	}

	author := xpFirst(doc,
		`//div[@class="td-post-author-name"]//a`,
		`//a[@rel="author"]`,
		`//span[@class="td-post-author-name"]`)
	if author == "" {
		author = xpFirstAttr(doc, "content", `//meta[@name="author"]`)
	}

	dateText := xpFirstAttr(doc, "datetime",
		`//time[@class="entry-date updated td-module-date"]`,
		`//time[@class="entry-date"]`,
		`//span[@class="td-post-date"]//time`)
	if dateText == "" {
		dateText = xpFirst(doc,
			`//time[@class="entry-date"]`,
			`//span[@class="td-post-date"]//time`)
	}

	bodyParas := xpAll(doc, `//div[contains(@class, "td-post-content")]//p`)
	if len(bodyParas) == 0 {
		bodyParas = xpAll(doc,
			`//article//div[contains(@class, "entry-content")]//p | //div[contains(@class, "tdb-block-inner")]//p`)
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
