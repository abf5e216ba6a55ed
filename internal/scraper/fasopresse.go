package scraper

import (
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// fasopresse scrapes FasoPresse, an old Joomla site laid out in tables.
// Author signatures sit in the last paragraph of the body and email
// addresses are obfuscated by inline javascript, both need filtering.
type fasopresse struct {
	src    config.Source
	logger *slog.Logger
}

func newFasoPresse(src config.Source, logger *slog.Logger) Scraper {
	return &fasopresse{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *fasopresse) Key() string       { return s.src.Key }
func (s *fasopresse) MediaName() string { return s.src.Name }

func (s *fasopresse) ListingPages(maxPages int) []string {
	sections := sortedRubrics(s.src.Rubrics)
	if len(sections) == 0 {
		sections = []string{s.src.BaseURL}
	}
	// Joomla section pages list everything at once, pagination is not
	// offset-based, so one listing page per section.
	return sections
}

func (s *fasopresse) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	var links []string
	doc.Find("td.contentheading a.contentpagetitle, div.blog_more a.blogsection").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if u := absoluteURL(pageURL, href); u != "" {
			links = append(links, u)
		}
	})
	return dedupe(links), nil
}

func (s *fasopresse) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := firstText(doc, "td.contentheading a.contentpagetitle", "h1")

	author := firstText(doc, "span.small")
	author = strings.TrimSpace(strings.TrimPrefix(author, "Écrit par"))

	paras, signature := s.bodyParagraphs(doc)
	if signature != "" {
		author = signature
	}

	return &types.RawArticle{
		URL:            articleURL,
		Media:          s.src.Name,
		Title:          title,
		Author:         author,
		DateText:       firstText(doc, "td.createdate"),
		FetchedAt:      fetchedAt.Format(normalize.CanonicalLayout),
		BodyParagraphs: paras,
		ImageURL:       firstAttr(doc, "src", `table.contentpaneopen td[valign="top"] img`),
	}, nil
}

// bodyParagraphs collects the body text, dropping obfuscation scripts.
// A trailing short capitalized line with no final period is taken as the
// author signature and returned separately.
func (s *fasopresse) bodyParagraphs(doc *goquery.Document) (paras []string, signature string) {
	doc.Find(`table.contentpaneopen td[valign="top"] p`).Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) < 3 {
			return
		}
		if strings.Contains(text, "Cette adresse email est protégée") ||
			strings.Contains(text, "javascript") ||
			strings.Contains(text, "document.write") {
			return
		}
		if isSignature(text) && len(paras) > 0 {
			signature = text
			return
		}
		paras = append(paras, text)
	})
	return paras, signature
}

func isSignature(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	r := []rune(text)
	return unicode.IsUpper(r[0]) && !strings.HasSuffix(text, ".")
}
