// Package export renders analysis results to the report formats: CSV for
// the flat article table, Excel for the full workbook, PDF for the
// narrative report and JSON for machine consumers.
package export

import (
	"log/slog"
	"time"

	"github.com/fasowatch/mediascan/internal/analysis"
	"github.com/fasowatch/mediascan/internal/types"
)

// Exporter renders reports from the analyzer's current snapshot.
type Exporter struct {
	analyzer *analysis.Analyzer
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Exporter.
func New(a *analysis.Analyzer, logger *slog.Logger) *Exporter {
	return &Exporter{
		analyzer: a,
		logger:   logger.With("component", "exporter"),
		now:      time.Now,
	}
}

// report bundles every view a full report needs. Built once per render
// so all sections describe the same snapshot.
type report struct {
	Global     analysis.GlobalStats
	Ranking    []types.Media
	Dist       map[string]int
	ByCategory []analysis.CategoryStats
	ByMedia    []analysis.MediaArticleStats
	Engagement []analysis.EngagementByCategory
	Top        []analysis.ArticleScore
	Sensitive  []analysis.SensitiveArticle
	Articles   []types.Article
}

func (e *Exporter) build() (*report, error) {
	r := &report{}
	var err error

	if r.Global, err = e.analyzer.GlobalStats(); err != nil {
		return nil, err
	}
	if r.Ranking, err = e.analyzer.MediaRanking(); err != nil {
		return nil, err
	}
	if r.Dist, err = e.analyzer.CategoryDistribution(); err != nil {
		return nil, err
	}
	if r.ByCategory, err = e.analyzer.ArticlesByCategory(); err != nil {
		return nil, err
	}
	if r.ByMedia, err = e.analyzer.ArticlesByMedia(); err != nil {
		return nil, err
	}
	if r.Engagement, err = e.analyzer.EngagementByCategory(); err != nil {
		return nil, err
	}
	if r.Top, err = e.analyzer.TopArticles(20, "engagement"); err != nil {
		return nil, err
	}
	if r.Sensitive, err = e.analyzer.SensitiveArticles(-1); err != nil {
		return nil, err
	}
	snap, err := e.analyzer.Snapshot()
	if err != nil {
		return nil, err
	}
	r.Articles = snap.Articles
	return r, nil
}
