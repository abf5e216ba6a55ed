package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/fasowatch/mediascan/internal/normalize"
	"github.com/fasowatch/mediascan/internal/types"
)

// mediaMetrics are the raw per-outlet sub-metrics feeding the influence
// score.
type mediaMetrics struct {
	volume     float64 // publication count
	engagement float64 // summed likes+partages+commentaires
	reach      float64 // weighted interaction score (partages > commentaires > likes)
	regularity float64 // share of days in the activity window with at least one article
	diversity  float64 // distinct category labels / 9
	latest     time.Time
}

// MediaRanking recomputes the full media roster: per-outlet counts,
// influence scores, dense rank 1..N and the 90-day activity flag. Each
// sub-metric is min-max normalized to [0,10] across the current roster
// before weighting, so scores compare within a snapshot, not across
// snapshots. Score ties keep roster insertion order.
func (a *Analyzer) MediaRanking() ([]types.Media, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Medias) == 0 {
		return []types.Media{}, nil
	}

	ref := referenceTime(snap.Articles)
	window := a.cfg.ActivityWindowDays
	if window <= 0 {
		window = 90
	}
	cutoff := ref.AddDate(0, 0, -window)

	metrics := make(map[string]*mediaMetrics, len(snap.Medias))
	days := make(map[string]map[string]bool)
	cats := make(map[string]map[string]bool)
	for i := range snap.Medias {
		nom := snap.Medias[i].Nom
		metrics[nom] = &mediaMetrics{}
		days[nom] = make(map[string]bool)
		cats[nom] = make(map[string]bool)
	}

	for i := range snap.Articles {
		art := &snap.Articles[i]
		m, ok := metrics[art.Media]
		if !ok {
			// Articles from outlets missing in the roster are counted
			// nowhere; the roster is the source of truth for ranking.
			continue
		}
		m.volume++
		e := art.Engagement
		m.engagement += float64(e.Total())
		m.reach += float64(e.Likes) + 2*float64(e.Commentaires) + 3*float64(e.Partages)
		cats[art.Media][art.Categorie] = true
		if t, err := normalize.ParseCanonical(art.Date); err == nil {
			days[art.Media][t.Format("2006-01-02")] = true
			if t.After(m.latest) {
				m.latest = t
			}
		}
	}

	for nom, m := range metrics {
		m.regularity = float64(len(days[nom])) / float64(window)
		m.diversity = float64(len(cats[nom])) / float64(len(normalize.StandardLabels))
	}

	volumeN := normalizer(metrics, func(m *mediaMetrics) float64 { return m.volume })
	engagementN := normalizer(metrics, func(m *mediaMetrics) float64 { return m.engagement })
	reachN := normalizer(metrics, func(m *mediaMetrics) float64 { return m.reach })
	regularityN := normalizer(metrics, func(m *mediaMetrics) float64 { return m.regularity })
	diversityN := normalizer(metrics, func(m *mediaMetrics) float64 { return m.diversity })

	w := a.cfg.InfluenceWeights
	out := make([]types.Media, len(snap.Medias))
	for i := range snap.Medias {
		media := snap.Medias[i]
		m := metrics[media.Nom]

		score := w.Volume*volumeN(m) +
			w.Engagement*engagementN(m) +
			w.Reach*reachN(m) +
			w.Regularity*regularityN(m) +
			w.Diversity*diversityN(m)

		media.NbArticles = int(m.volume)
		media.EngagementTotal = int(m.engagement)
		media.ScoreInfluence = math.Round(score*100) / 100
		media.Actif90j = !m.latest.IsZero() && !m.latest.Before(cutoff)
		out[i] = media
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreInfluence > out[j].ScoreInfluence
	})
	for i := range out {
		out[i].Rang = i + 1
	}
	return out, nil
}

// normalizer builds a min-max scaler to [0,10] over the roster for one
// sub-metric. When all outlets share the same value the midpoint 5 is
// returned, matching the degenerate single-outlet case.
func normalizer(metrics map[string]*mediaMetrics, get func(*mediaMetrics) float64) func(*mediaMetrics) float64 {
	first := true
	var lo, hi float64
	for _, m := range metrics {
		v := get(m)
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return func(m *mediaMetrics) float64 {
		if hi == lo {
			return 5
		}
		return (get(m) - lo) / (hi - lo) * 10
	}
}
