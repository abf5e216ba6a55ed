package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	specialChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,!?;:]`)
	wordRe       = regexp.MustCompile(`[\p{Ll}]{3,}`)
)

// French stop words excluded from keyword extraction.
var stopWords = map[string]bool{
	"le": true, "la": true, "les": true, "un": true, "une": true,
	"des": true, "du": true, "de": true, "et": true, "est": true,
	"dans": true, "pour": true, "que": true, "qui": true, "par": true,
	"sur": true, "avec": true, "ce": true, "cet": true, "cette": true,
	"ces": true, "sont": true, "au": true, "aux": true, "son": true,
	"sa": true, "ses": true, "leur": true, "leurs": true, "ils": true,
	"elles": true, "elle": true, "nous": true, "vous": true, "a": true,
	"à": true, "ont": true, "été": true, "être": true, "fait": true,
	"faire": true, "plus": true, "pas": true, "comme": true, "mais": true,
	"ou": true, "où": true, "dont": true, "quoi": true, "donc": true,
	"or": true, "ni": true, "car": true, "sans": true, "sous": true,
	"vers": true, "entre": true, "chez": true, "après": true,
	"avant": true, "contre": true, "burkina": true, "faso": true,
}

// CleanText collapses whitespace and strips special characters while
// keeping letters, digits and basic punctuation.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	text = specialChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Words tokenizes text into lowercase words of at least three letters,
// stop words excluded.
func Words(text string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// Keywords returns the top n words by frequency, excluding stop words.
// Ties break alphabetically so the order is stable.
func Keywords(text string, n int) []string {
	if text == "" || n <= 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, w := range Words(text) {
		freq[w]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}

// FormatNumber renders large counts with a K/M suffix.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
