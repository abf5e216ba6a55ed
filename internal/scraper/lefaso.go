package scraper

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// lefaso scrapes Lefaso.net, a SPIP site. Articles live under
// spip.php?article<N> and listings paginate with a debut_articles offset.
// It is the only roster outlet exposing reader comments.
type lefaso struct {
	src    config.Source
	logger *slog.Logger
}

func newLefaso(src config.Source, logger *slog.Logger) Scraper {
	return &lefaso{src: src, logger: logger.With("scraper", src.Key)}
}

func (s *lefaso) Key() string       { return s.src.Key }
func (s *lefaso) MediaName() string { return s.src.Name }

// ListingPages expands every configured rubric across maxPages listing
// pages. Page 1 is the rubric URL itself; later pages add a 20-article
// offset.
func (s *lefaso) ListingPages(maxPages int) []string {
	if maxPages < 1 {
		maxPages = 1
	}
	var pages []string
	for _, rubricURL := range sortedRubrics(s.src.Rubrics) {
		for page := 1; page <= maxPages; page++ {
			if page == 1 {
				pages = append(pages, rubricURL)
				continue
			}
			offset := (page - 1) * 20
			pages = append(pages, fmt.Sprintf("%s&debut_articles=%d", rubricURL, offset))
		}
	}
	if len(pages) == 0 {
		pages = append(pages, s.src.BaseURL)
	}
	return pages
}

func (s *lefaso) ArticleLinks(body []byte, pageURL string) ([]string, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: pageURL, Source: s.src.Key, Err: err}
	}

	var links []string
	doc.Find(`div.col-md-8 a[href*="spip.php?article"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if u := absoluteURL(pageURL, href); u != "" {
			links = append(links, u)
		}
	})
	return dedupe(links), nil
}

func (s *lefaso) Extract(body []byte, articleURL string, fetchedAt time.Time) (*types.RawArticle, error) {
	doc, err := parseDoc(body)
	if err != nil {
		return nil, &types.ExtractError{URL: articleURL, Source: s.src.Key, Err: err}
	}

	title := firstText(doc, "h1.entry-title", "h1")

	dateText := firstText(doc, "div.article-meta")
	if dateText == "" {
		doc.Find("div.container p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if t := strings.TrimSpace(p.Text()); strings.Contains(t, "Publié") {
				dateText = t
				return false
			}
			return true
		})
	}

	return &types.RawArticle{
		URL:            articleURL,
		Media:          s.src.Name,
		Title:          title,
		DateText:       dateText,
		FetchedAt:      fetchedAt.Format(normalize.CanonicalLayout),
		BodyParagraphs: paragraphs(doc, "div.col-md-8 p"),
		CategoryText:   firstText(doc, "div.breadcrumb a:last-of-type"),
		Comments:       s.extractComments(doc),
	}, nil
}

// extractComments walks the SPIP forum thread under the article. Replies
// nest one level deep.
func (s *lefaso) extractComments(doc *goquery.Document) []types.Comment {
	var comments []types.Comment
	doc.Find("ul.forum > li").Each(func(_ int, li *goquery.Selection) {
		msg := li.ChildrenFiltered(`div[class*="forum-message"]`)
		c := types.Comment{
			Date: strings.TrimSpace(msg.Find("font").First().Text()),
			Text: strings.TrimSpace(msg.Find("div.ugccmt-commenttext").Text()),
		}

		li.ChildrenFiltered("ul").ChildrenFiltered("li").Each(func(_ int, reply *goquery.Selection) {
			rmsg := reply.ChildrenFiltered(`div[class*="forum-message"]`)
			c.Replies = append(c.Replies, types.Comment{
				Date: strings.TrimSpace(rmsg.Find("font").First().Text()),
				Text: strings.TrimSpace(rmsg.Find("div.ugccmt-commenttext").Text()),
			})
		})

		if c.Text != "" || len(c.Replies) > 0 {
			comments = append(comments, c)
		}
	})
	return comments
}

// sortedRubrics returns rubric URLs in stable name order.
func sortedRubrics(rubrics map[string]string) []string {
	names := make([]string, 0, len(rubrics))
	for name := range rubrics {
		names = append(names, name)
	}
	// Stable crawl order across runs.
	sort.Strings(names)
	urls := make([]string, 0, len(names))
	for _, name := range names {
		urls = append(urls, rubrics[name])
	}
	return urls
}
