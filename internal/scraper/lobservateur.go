package scraper

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// lobservateur scrapes L'Observateur Paalga, a Joomla site on the K2
// content component. Listing pages split articles across four section
// blocks.
type lobservateur struct {
	src    config.Source
	logger *slog.Logger
}

func newLObservateur(src config.Source, logger *slog.Logger) Scraper {
	return &lobservateur{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *lobservateur) Key() string       { return s.src.Key }
func (s *lobservateur) MediaName() string { return s.src.Name }

func (s *lobservateur) ListingPages(maxPages int) []string {
	sections := sortedRubrics(s.src.Rubrics)
	if len(sections) == 0 {
		sections = []string{s.src.BaseURL}
	}
	return sections
}

func (s *lobservateur) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	var links []string
	collect := func(sel string) {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if u := absoluteURL(pageURL, href); u != "" {
				links = append(links, u)
			}
		})
	}
	collect("div#itemListLeading article h1 a")
	collect("div#itemListPrimary article h1 a")
	collect("div#itemListSecondary article h1 a")
	collect("div#itemListLinks li a")

	return dedupe(links), nil
}

func (s *lobservateur) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := firstText(doc, "h2.itemTitle", "div.itemHeader h2")
	if title == "" {
		title = firstAttr(doc, "content", `meta[property="og:title"]`)
	}

	author := firstText(doc, `li.itemAuthor a[rel="author"]`)
	if author == "" {
		author = strings.TrimSpace(strings.TrimPrefix(firstText(doc, "li.itemAuthor"), "Écrit par"))
	}

	dateText := firstAttr(doc, "datetime", "li.itemDate time")
	if dateText == "" {
		dateText = firstText(doc, "li.itemDate time")
	}

	paras := paragraphs(doc, "div.itemFullText p")
	if len(paras) == 0 {
		paras = paragraphs(doc, "div.itemIntroText p")
	}

	image := firstAttr(doc, "src", "div.itemImageBlock a.itemImage img", "div.itemImageBlock img")
	if image == "" {
		image = firstAttr(doc, "content", `meta[property="og:image"]`)
	} else {
		image = absoluteURL(articleURL, image)
	}

	return &types.RawArticle{
		URL:            articleURL,
		Media:          s.src.Name,
		Title:          title,
		Author:         author,
		DateText:       dateText,
		FetchedAt:      fetchedAt.Format(normalize.CanonicalLayout),
		BodyParagraphs: paras,
		ImageURL:       image,
		CategoryText:   firstText(doc, "li.itemCategory a"),
		Tags:           nil,
	}, nil
}
