// Package format assembles canonical article records from raw per-site
// extractions.
package format

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"

	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// Formatter turns RawArticle records into canonical Articles.
type Formatter struct {
	dates  *normalize.DateParser
	logger *slog.Logger
}

// New creates a Formatter.
func New(logger *slog.Logger) *Formatter {
	return &Formatter{
		dates:  normalize.NewDateParser(),
		logger: logger.With("component", "formatter"),
	}
}

// ArticleID derives the content-addressed identifier from the canonical
// URL. Re-scraping the same URL always yields the same id. The digest only
// needs to be stable and collision-resistant, not cryptographic.
func ArticleID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Format assembles the canonical article record. Empty title or body is
// permitted; downstream aggregation treats empty content as zero-weight
// but never drops the record.
func (f *Formatter) Format(raw types.RawArticle) types.Article {
	date := f.normalizeDate(raw)

	a := types.Article{
		ID:           ArticleID(raw.URL),
		Media:        raw.Media,
		Titre:        normalize.CleanText(raw.Title),
		Date:         date,
		URL:          raw.URL,
		Contenu:      raw.Body(),
		Categorie:    normalize.Label(raw.CategoryText),
		CategorieRaw: raw.CategoryText,
		Engagement:   engagement(raw),
		Comments:     raw.Comments,
	}
	return a
}

// normalizeDate resolves the raw date text; relative phrases use the fetch
// timestamp captured at extraction when one is present. An unparseable
// date falls back to the wall clock, never to an error.
func (f *Formatter) normalizeDate(raw types.RawArticle) string {
	if raw.FetchedAt != "" {
		if ref, err := normalize.ParseCanonical(raw.FetchedAt); err == nil {
			if s, ok := f.dates.ParseAt(raw.DateText, ref); ok {
				return s
			}
		}
	}
	if s, ok := f.dates.Parse(raw.DateText); ok {
		return s
	}
	if raw.DateText != "" {
		f.logger.Warn("unparseable date, using current time", "media", raw.Media, "date_text", raw.DateText)
	}
	return f.dates.ParseOrNow("")
}

// engagement computes the engagement tuple. Comment count comes from the
// extracted comments; replies are summed one level deep; likes and shares
// pass through, clamped at zero.
func engagement(raw types.RawArticle) types.Engagement {
	replies := 0
	for _, c := range raw.Comments {
		replies += len(c.Replies)
	}
	return types.Engagement{
		Likes:        max(raw.Likes, 0),
		Partages:     max(raw.Partages, 0),
		Commentaires: len(raw.Comments),
		Replies:      replies,
	}
}
