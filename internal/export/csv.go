package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fasowatch/mediascan/internal/types"
)

// csvHeader is the flat article column layout, engagement unpacked into
// its three components.
var csvHeader = []string{
	"id", "media", "titre", "date", "url", "categorie",
	"likes", "partages", "commentaires", "sensible", "toxicite_score",
}

// WriteArticlesCSV writes the article collection as a flat CSV table.
func (e *Exporter) WriteArticlesCSV(w io.Writer) error {
	snap, err := e.analyzer.Snapshot()
	if err != nil {
		return err
	}
	return WriteArticlesCSV(w, snap.Articles)
}

// WriteArticlesCSV writes articles in the flat column layout.
func WriteArticlesCSV(w io.Writer, articles []types.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range articles {
		a := &articles[i]
		row := []string{
			a.ID,
			a.Media,
			a.Titre,
			a.Date,
			a.URL,
			a.Categorie,
			strconv.Itoa(a.Engagement.Likes),
			strconv.Itoa(a.Engagement.Partages),
			strconv.Itoa(a.Engagement.Commentaires),
			strconv.FormatBool(a.Sensible),
			strconv.FormatFloat(a.ToxiciteScore, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", a.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadArticlesCSV parses a flat CSV table back into articles. Used by the
// import path and to verify exports.
func ReadArticlesCSV(r io.Reader) ([]types.Article, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv missing column %q", name)
		}
	}

	articles := make([]types.Article, 0, len(records)-1)
	for _, rec := range records[1:] {
		likes, err := strconv.Atoi(rec[col["likes"]])
		if err != nil {
			return nil, fmt.Errorf("parse likes %q: %w", rec[col["likes"]], err)
		}
		partages, err := strconv.Atoi(rec[col["partages"]])
		if err != nil {
			return nil, fmt.Errorf("parse partages %q: %w", rec[col["partages"]], err)
		}
		commentaires, err := strconv.Atoi(rec[col["commentaires"]])
		if err != nil {
			return nil, fmt.Errorf("parse commentaires %q: %w", rec[col["commentaires"]], err)
		}
		sensible, err := strconv.ParseBool(rec[col["sensible"]])
		if err != nil {
			return nil, fmt.Errorf("parse sensible %q: %w", rec[col["sensible"]], err)
		}
		toxicite, err := strconv.ParseFloat(rec[col["toxicite_score"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parse toxicite_score %q: %w", rec[col["toxicite_score"]], err)
		}

		articles = append(articles, types.Article{
			ID:        rec[col["id"]],
			Media:     rec[col["media"]],
			Titre:     rec[col["titre"]],
			Date:      rec[col["date"]],
			URL:       rec[col["url"]],
			Categorie: rec[col["categorie"]],
			Engagement: types.Engagement{
				Likes:        likes,
				Partages:     partages,
				Commentaires: commentaires,
			},
			Sensible:      sensible,
			ToxiciteScore: toxicite,
		})
	}
	return articles, nil
}
