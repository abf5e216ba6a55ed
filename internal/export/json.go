package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fasowatch/mediascan/internal/analysis"
)

// mediaRankingRow flattens the media roster fields the report needs.
type mediaRankingRow struct {
	Rang            int     `json:"rang"`
	Nom             string  `json:"nom"`
	NbArticles      int     `json:"nb_articles"`
	EngagementTotal int     `json:"engagement_total"`
	ScoreInfluence  float64 `json:"score_influence"`
	Actif90j        bool    `json:"actif_90j"`
}

type jsonReport struct {
	GeneratedAt          string                          `json:"generated_at"`
	ReportType           string                          `json:"report_type"`
	GlobalStats          analysis.GlobalStats            `json:"global_stats"`
	CategoryDistribution map[string]int                  `json:"category_distribution"`
	ArticlesByCategory   []analysis.CategoryStats        `json:"articles_by_category"`
	ArticlesByMedia      []analysis.MediaArticleStats    `json:"articles_by_media"`
	EngagementByCategory []analysis.EngagementByCategory `json:"engagement_by_category"`
	MediaRanking         []mediaRankingRow               `json:"media_ranking"`
	SensitiveArticles    []analysis.SensitiveArticle     `json:"sensitive_articles"`
	TopArticles          []analysis.ArticleScore         `json:"top_articles"`
}

// WriteJSON serializes the full analysis report. generated_at is the
// export time in RFC 3339, report_type is always media_analysis.
func (e *Exporter) WriteJSON(w io.Writer) error {
	r, err := e.build()
	if err != nil {
		return err
	}

	out := jsonReport{
		GeneratedAt:          e.now().Format(time.RFC3339),
		ReportType:           "media_analysis",
		GlobalStats:          r.Global,
		CategoryDistribution: r.Dist,
		ArticlesByCategory:   r.ByCategory,
		ArticlesByMedia:      r.ByMedia,
		EngagementByCategory: r.Engagement,
		MediaRanking:         make([]mediaRankingRow, 0, len(r.Ranking)),
		SensitiveArticles:    r.Sensitive,
		TopArticles:          r.Top,
	}
	for _, m := range r.Ranking {
		out.MediaRanking = append(out.MediaRanking, mediaRankingRow{
			Rang:            m.Rang,
			Nom:             m.Nom,
			NbArticles:      m.NbArticles,
			EngagementTotal: m.EngagementTotal,
			ScoreInfluence:  m.ScoreInfluence,
			Actif90j:        m.Actif90j,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	e.logger.Info("json report written", "articles", r.Global.TotalArticles)
	return nil
}
