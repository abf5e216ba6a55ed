package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the narrative report: global stats, media ranking,
// thematic distribution, sensitive content and top articles.
func (e *Exporter) WritePDF(w io.Writer) error {
	r, err := e.build()
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "MEDIASCAN", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, tr("Rapport d'analyse des médias burkinabè"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Généré le %s", e.now().Format("02/01/2006 à 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	line := func(text string) {
		pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
	}

	section("1. STATISTIQUES GLOBALES")
	g := r.Global
	line(fmt.Sprintf("Total d'articles analysés: %d", g.TotalArticles))
	line(fmt.Sprintf("Nombre de médias: %d", g.TotalMedias))
	line(fmt.Sprintf("Engagement total: %d", g.TotalEngagement))
	line(fmt.Sprintf("  - Likes: %d", g.TotalLikes))
	line(fmt.Sprintf("  - Partages: %d", g.TotalPartages))
	line(fmt.Sprintf("  - Commentaires: %d", g.TotalCommentaires))
	line(fmt.Sprintf("Articles sensibles: %d (%.1f%%)", g.ArticlesSensibles, g.TauxSensible))
	pdf.Ln(4)

	section("2. CLASSEMENT DES MÉDIAS")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(10, 8, "#", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, tr("Média"), "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Articles", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Score", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Actif 90j", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, m := range r.Ranking {
		actif := "Non"
		if m.Actif90j {
			actif = "Oui"
		}
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", m.Rang), "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 8, tr(truncate(m.Nom, 30)), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", m.NbArticles), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", m.ScoreInfluence), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, actif, "1", 1, "", false, 0, "")
	}

	pdf.AddPage()
	section("3. DISTRIBUTION THÉMATIQUE")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 8, tr("Catégorie"), "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, "Nombre d'articles", "1", 0, "", false, 0, "")
	pdf.CellFormat(60, 8, "Engagement total", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, c := range r.ByCategory {
		pdf.CellFormat(70, 8, tr(c.Categorie), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%d", c.NbArticles), "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 8, fmt.Sprintf("%d", c.EngagementTotal), "1", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	section("4. CONTENUS SENSIBLES")
	line(fmt.Sprintf("Nombre total de contenus sensibles détectés: %d", len(r.Sensitive)))
	if len(r.Sensitive) > 0 {
		line("Top 10 des contenus les plus sensibles:")
		for i, s := range r.Sensitive {
			if i >= 10 {
				break
			}
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("- %s (%s) - Score: %.2f", s.Titre, s.Media, s.ToxiciteScore)), "", "L", false)
		}
	}

	pdf.AddPage()
	section("5. TOP ARTICLES (PAR ENGAGEMENT)")
	for i, t := range r.Top {
		if i >= 10 {
			break
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, t.Titre)), "", "L", false)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("   Média: %s | Catégorie: %s | Engagement: %d", t.Media, t.Categorie, t.Score)), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 10, tr("Rapport généré par MEDIASCAN"), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	e.logger.Info("pdf report written", "articles", g.TotalArticles)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
