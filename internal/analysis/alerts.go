package analysis

import (
	"sort"

	"github.com/fasowatch/mediascan/internal/types"
)

// Alert tiers, most severe first.
const (
	AlertCriticalMass = "critical_mass"
	AlertCritical     = "critical"
	AlertMass         = "mass"
)

// Classifier thresholds. Fixed by the alerting contract.
const (
	massCommentThreshold = 10
	highToxicityLevel    = 0.8
)

var alertSeverity = map[string]int{
	AlertCriticalMass: 3,
	AlertCritical:     2,
	AlertMass:         1,
}

// CommentAlert flags an article whose comment thread looks suspicious.
type CommentAlert struct {
	ArticleID     string  `json:"article_id"`
	Media         string  `json:"media"`
	Titre         string  `json:"titre"`
	URL           string  `json:"url"`
	Type          string  `json:"type"`
	NbSensibles   int     `json:"nb_sensibles"`
	NbHighlyToxic int     `json:"nb_highly_toxic"`
	NbComments    int     `json:"nb_comments"`
	MaxToxicity   float64 `json:"max_toxicity"`
}

// ClassifyComments evaluates the suspicious-comment rule for one article.
// The second return value is false when the article raises no alert.
//
//   - critical_mass: at least one critical comment AND more than 10
//     comments in total
//   - critical: at least one comment flagged sensitive or scoring above
//     0.8 toxicity
//   - mass: more than 10 comments, none critical
func ClassifyComments(a *types.Article) (CommentAlert, bool) {
	total := len(a.Comments)

	var nbSensibles, nbHighlyToxic int
	var maxToxicity float64
	for i := range a.Comments {
		c := &a.Comments[i]
		if c.Sensible {
			nbSensibles++
		}
		if c.ToxiciteScore > highToxicityLevel {
			nbHighlyToxic++
		}
		if c.ToxiciteScore > maxToxicity {
			maxToxicity = c.ToxiciteScore
		}
	}

	hasCritical := nbSensibles > 0 || nbHighlyToxic > 0
	hasMass := total > massCommentThreshold

	var alertType string
	switch {
	case hasCritical && hasMass:
		alertType = AlertCriticalMass
	case hasCritical:
		alertType = AlertCritical
	case hasMass:
		alertType = AlertMass
	default:
		return CommentAlert{}, false
	}

	return CommentAlert{
		ArticleID:     a.ID,
		Media:         a.Media,
		Titre:         a.Titre,
		URL:           a.URL,
		Type:          alertType,
		NbSensibles:   nbSensibles,
		NbHighlyToxic: nbHighlyToxic,
		NbComments:    total,
		MaxToxicity:   maxToxicity,
	}, true
}

// CommentAlerts classifies every article and returns the alerts sorted by
// severity descending, then max toxicity descending. Articles raising no
// alert are absent from the result.
func (a *Analyzer) CommentAlerts() ([]CommentAlert, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]CommentAlert, 0)
	for i := range snap.Articles {
		if alert, ok := ClassifyComments(&snap.Articles[i]); ok {
			out = append(out, alert)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if alertSeverity[out[i].Type] != alertSeverity[out[j].Type] {
			return alertSeverity[out[i].Type] > alertSeverity[out[j].Type]
		}
		return out[i].MaxToxicity > out[j].MaxToxicity
	})
	return out, nil
}
