package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteExcel renders the full workbook: one sheet per analysis view plus
// the flat article table, mirroring the dashboard sections.
func (e *Exporter) WriteExcel(w io.Writer) error {
	r, err := e.build()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeSheet := func(name string, header []any, rows [][]any) error {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("write header %s: %w", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("write row %d of %s: %w", i+2, name, err)
			}
		}
		return nil
	}

	g := r.Global
	if err := writeSheet("Statistiques Globales",
		[]any{"total_articles", "total_medias", "total_engagement", "total_likes",
			"total_partages", "total_commentaires", "articles_sensibles", "taux_sensible"},
		[][]any{{g.TotalArticles, g.TotalMedias, g.TotalEngagement, g.TotalLikes,
			g.TotalPartages, g.TotalCommentaires, g.ArticlesSensibles, g.TauxSensible}},
	); err != nil {
		return err
	}

	ranking := make([][]any, 0, len(r.Ranking))
	for _, m := range r.Ranking {
		ranking = append(ranking, []any{m.Rang, m.Nom, m.TypeMedia, m.NbArticles,
			m.EngagementTotal, m.ScoreInfluence, m.Actif90j})
	}
	if err := writeSheet("Classement Médias",
		[]any{"rang", "nom", "type_media", "nb_articles", "engagement_total", "score_influence", "actif_90j"},
		ranking,
	); err != nil {
		return err
	}

	cats := make([][]any, 0, len(r.ByCategory))
	for _, c := range r.ByCategory {
		cats = append(cats, []any{c.Categorie, c.NbArticles, c.EngagementTotal})
	}
	if err := writeSheet("Articles par Catégorie",
		[]any{"categorie", "nb_articles", "engagement_total"}, cats); err != nil {
		return err
	}

	medias := make([][]any, 0, len(r.ByMedia))
	for _, m := range r.ByMedia {
		medias = append(medias, []any{m.Media, m.NbArticles, m.EngagementTotal})
	}
	if err := writeSheet("Articles par Média",
		[]any{"media", "nb_articles", "engagement_total"}, medias); err != nil {
		return err
	}

	engagement := make([][]any, 0, len(r.Engagement))
	for _, ec := range r.Engagement {
		engagement = append(engagement, []any{ec.Categorie, ec.Likes, ec.Partages,
			ec.Commentaires, ec.EngagementTotal})
	}
	if err := writeSheet("Engagement par Catégorie",
		[]any{"categorie", "likes", "partages", "commentaires", "engagement_total"},
		engagement); err != nil {
		return err
	}

	top := make([][]any, 0, len(r.Top))
	for _, t := range r.Top {
		top = append(top, []any{t.Titre, t.Media, t.Categorie, t.Date, t.Score, t.URL})
	}
	if err := writeSheet("Top Articles",
		[]any{"titre", "media", "categorie", "date", "score", "url"}, top); err != nil {
		return err
	}

	sensitive := make([][]any, 0, len(r.Sensitive))
	for _, s := range r.Sensitive {
		sensitive = append(sensitive, []any{s.Titre, s.Media, s.Categorie, s.Date,
			s.ToxiciteScore, s.URL})
	}
	if err := writeSheet("Contenus Sensibles",
		[]any{"titre", "media", "categorie", "date", "toxicite_score", "url"},
		sensitive); err != nil {
		return err
	}

	articles := make([][]any, 0, len(r.Articles))
	for i := range r.Articles {
		a := &r.Articles[i]
		articles = append(articles, []any{a.ID, a.Media, a.Titre, a.Date, a.Categorie,
			a.Engagement.Likes, a.Engagement.Partages, a.Engagement.Commentaires,
			a.Sensible, a.ToxiciteScore, a.URL})
	}
	if err := writeSheet("Tous les Articles",
		[]any{"id", "media", "titre", "date", "categorie", "likes", "partages",
			"commentaires", "sensible", "toxicite_score", "url"},
		articles); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on the stats.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	e.logger.Info("excel report written", "articles", len(r.Articles))
	return nil
}
