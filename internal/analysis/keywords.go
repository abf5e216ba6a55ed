package analysis

import (
	"sort"

	"github.com/fasowatch/mediascan/internal/normalize"
)

// KeywordCount is a title word and its occurrence count.
type KeywordCount struct {
	Mot   string `json:"mot"`
	Count int    `json:"count"`
}

// Keywords counts word frequency across article titles, using the shared
// tokenizer and stop-word table, and returns the n most frequent. Ties
// break alphabetically so the order is stable.
func (a *Analyzer) Keywords(n int) ([]KeywordCount, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 20
	}

	counts := make(map[string]int)
	for i := range snap.Articles {
		for _, w := range normalize.Words(snap.Articles[i].Titre) {
			counts[w]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, KeywordCount{Mot: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mot < out[j].Mot
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
