package analysis

import (
	"sort"
	"strings"

	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// GlobalStats summarizes the full article collection.
type GlobalStats struct {
	TotalArticles     int     `json:"total_articles"`
	TotalMedias       int     `json:"total_medias"`
	TotalEngagement   int     `json:"total_engagement"`
	TotalLikes        int     `json:"total_likes"`
	TotalPartages     int     `json:"total_partages"`
	TotalCommentaires int     `json:"total_commentaires"`
	ArticlesSensibles int     `json:"articles_sensibles"`
	TauxSensible      float64 `json:"taux_sensible"`
}

// CategoryStats is the per-category article count and engagement.
type CategoryStats struct {
	Categorie       string `json:"categorie"`
	NbArticles      int    `json:"nb_articles"`
	EngagementTotal int    `json:"engagement_total"`
}

// MediaArticleStats is the per-media article count and engagement.
type MediaArticleStats struct {
	Media           string `json:"media"`
	NbArticles      int    `json:"nb_articles"`
	EngagementTotal int    `json:"engagement_total"`
}

// EngagementByCategory breaks engagement per category into components.
type EngagementByCategory struct {
	Categorie       string `json:"categorie"`
	Likes           int    `json:"likes"`
	Partages        int    `json:"partages"`
	Commentaires    int    `json:"commentaires"`
	EngagementTotal int    `json:"engagement_total"`
}

// TimelinePoint is one calendar-day bucket.
type TimelinePoint struct {
	Date       string `json:"date"`
	NbArticles int    `json:"nb_articles"`
}

// ArticleScore is an article row annotated with a metric score.
type ArticleScore struct {
	ID        string `json:"id"`
	Media     string `json:"media"`
	Titre     string `json:"titre"`
	Date      string `json:"date"`
	Categorie string `json:"categorie"`
	URL       string `json:"url"`
	Score     int    `json:"score"`
}

// SensitiveArticle is an article row annotated with its toxicity score.
type SensitiveArticle struct {
	ID            string  `json:"id"`
	Media         string  `json:"media"`
	Titre         string  `json:"titre"`
	Date          string  `json:"date"`
	Categorie     string  `json:"categorie"`
	ToxiciteScore float64 `json:"toxicite_score"`
	URL           string  `json:"url"`
}

// GlobalStats computes collection-wide totals. An empty snapshot yields
// zero values, not an error.
func (a *Analyzer) GlobalStats() (GlobalStats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return GlobalStats{}, err
	}

	var s GlobalStats
	s.TotalArticles = len(snap.Articles)
	s.TotalMedias = len(snap.Medias)

	for i := range snap.Articles {
		e := snap.Articles[i].Engagement
		s.TotalLikes += e.Likes
		s.TotalPartages += e.Partages
		s.TotalCommentaires += e.Commentaires
		if snap.Articles[i].Sensible {
			s.ArticlesSensibles++
		}
	}
	s.TotalEngagement = s.TotalLikes + s.TotalPartages + s.TotalCommentaires
	if s.TotalArticles > 0 {
		s.TauxSensible = float64(s.ArticlesSensibles) / float64(s.TotalArticles) * 100
	}
	return s, nil
}

// ArticlesByCategory groups articles per category label, sorted by
// article count descending.
func (a *Analyzer) ArticlesByCategory() ([]CategoryStats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	byCat := make(map[string]*CategoryStats)
	var order []string
	for i := range snap.Articles {
		art := &snap.Articles[i]
		cs, ok := byCat[art.Categorie]
		if !ok {
			cs = &CategoryStats{Categorie: art.Categorie}
			byCat[art.Categorie] = cs
			order = append(order, art.Categorie)
		}
		cs.NbArticles++
		cs.EngagementTotal += art.Engagement.Total()
	}

	out := make([]CategoryStats, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NbArticles > out[j].NbArticles
	})
	return out, nil
}

// ArticlesByMedia groups articles per outlet, sorted by total engagement
// descending.
func (a *Analyzer) ArticlesByMedia() ([]MediaArticleStats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	byMedia := make(map[string]*MediaArticleStats)
	var order []string
	for i := range snap.Articles {
		art := &snap.Articles[i]
		ms, ok := byMedia[art.Media]
		if !ok {
			ms = &MediaArticleStats{Media: art.Media}
			byMedia[art.Media] = ms
			order = append(order, art.Media)
		}
		ms.NbArticles++
		ms.EngagementTotal += art.Engagement.Total()
	}

	out := make([]MediaArticleStats, 0, len(order))
	for _, m := range order {
		out = append(out, *byMedia[m])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementTotal > out[j].EngagementTotal
	})
	return out, nil
}

// CategoryDistribution returns the article count per standard label,
// zero-filled so every label appears; labels outside the standard set
// count toward "Autre".
func (a *Analyzer) CategoryDistribution() (map[string]int, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(snap.Articles))
	for i := range snap.Articles {
		labels = append(labels, snap.Articles[i].Categorie)
	}
	return normalize.LabelDistribution(labels), nil
}

// EngagementByCategory sums the engagement components per category,
// sorted by total descending.
func (a *Analyzer) EngagementByCategory() ([]EngagementByCategory, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	byCat := make(map[string]*EngagementByCategory)
	var order []string
	for i := range snap.Articles {
		art := &snap.Articles[i]
		ec, ok := byCat[art.Categorie]
		if !ok {
			ec = &EngagementByCategory{Categorie: art.Categorie}
			byCat[art.Categorie] = ec
			order = append(order, art.Categorie)
		}
		ec.Likes += art.Engagement.Likes
		ec.Partages += art.Engagement.Partages
		ec.Commentaires += art.Engagement.Commentaires
		ec.EngagementTotal += art.Engagement.Total()
	}

	out := make([]EngagementByCategory, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementTotal > out[j].EngagementTotal
	})
	return out, nil
}

// Timeline buckets articles by calendar day within the trailing window of
// the given length, anchored at the newest article date. A non-positive
// days value uses the configured default. The optional media filter
// restricts the count to the named outlets.
func (a *Analyzer) Timeline(days int, medias []string) ([]TimelinePoint, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Articles) == 0 {
		return []TimelinePoint{}, nil
	}
	if days <= 0 {
		days = a.cfg.TimelineDays
	}

	var filter map[string]bool
	if len(medias) > 0 {
		filter = make(map[string]bool, len(medias))
		for _, m := range medias {
			filter[m] = true
		}
	}

	end := referenceTime(snap.Articles)
	start := end.AddDate(0, 0, -days)

	buckets := make(map[string]int)
	for i := range snap.Articles {
		art := &snap.Articles[i]
		if filter != nil && !filter[art.Media] {
			continue
		}
		t, err := normalize.ParseCanonical(art.Date)
		if err != nil || t.Before(start) {
			continue
		}
		buckets[t.Format("2006-01-02")]++
	}

	out := make([]TimelinePoint, 0, len(buckets))
	for day, n := range buckets {
		out = append(out, TimelinePoint{Date: day, NbArticles: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// TopArticles selects the n articles maximizing the given metric, one of
// engagement, likes, partages, commentaires. Ties keep the original
// collection order.
func (a *Analyzer) TopArticles(n int, metric string) ([]ArticleScore, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 10
	}

	score := func(e types.Engagement) int {
		switch strings.ToLower(metric) {
		case "", "engagement":
			return e.Total()
		case "likes":
			return e.Likes
		case "partages":
			return e.Partages
		case "commentaires":
			return e.Commentaires
		default:
			return e.Total()
		}
	}

	out := make([]ArticleScore, 0, len(snap.Articles))
	for i := range snap.Articles {
		art := &snap.Articles[i]
		out = append(out, ArticleScore{
			ID:        art.ID,
			Media:     art.Media,
			Titre:     art.Titre,
			Date:      art.Date,
			Categorie: art.Categorie,
			URL:       art.URL,
			Score:     score(art.Engagement),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// SensitiveArticles returns articles flagged sensitive by the upstream
// classifier or whose toxicity score reaches the threshold (inclusive).
// A negative threshold uses the configured default. Sorted by toxicity
// descending.
func (a *Analyzer) SensitiveArticles(threshold float64) ([]SensitiveArticle, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if threshold < 0 {
		threshold = a.cfg.ToxicityThreshold
	}

	out := make([]SensitiveArticle, 0)
	for i := range snap.Articles {
		art := &snap.Articles[i]
		if !art.Sensible && art.ToxiciteScore < threshold {
			continue
		}
		out = append(out, SensitiveArticle{
			ID:            art.ID,
			Media:         art.Media,
			Titre:         art.Titre,
			Date:          art.Date,
			Categorie:     art.Categorie,
			ToxiciteScore: art.ToxiciteScore,
			URL:           art.URL,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ToxiciteScore > out[j].ToxiciteScore
	})
	return out, nil
}
