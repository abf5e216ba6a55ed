package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalLayout is the timestamp format every normalized date uses.
const CanonicalLayout = "2006-01-02 15:04:05"

// isoLayouts are tried first, most specific to least.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// numericLayouts cover the plain numeric forms the outlets use.
var numericLayouts = []string{
	"02/01/2006",
	"02-01-2006",
}

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"fevrier":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"aout":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
	"decembre":  time.December,
}

var (
	// "15 novembre 2025", optionally preceded by a weekday or "publié le",
	// optionally followed by "à 14h30".
	absoluteRe = regexp.MustCompile(`(?i)(\d{1,2})(?:er)?\s+([\p{L}]+)\s+(\d{4})(?:\s+à\s+(\d{1,2})\s*h\s*(\d{2}))?`)

	// "il y a 2 heures", "il y a 1 semaine"
	relativeRe = regexp.MustCompile(`(?i)il y a\s+(\d+)\s*(minute|heure|jour|semaine|mois)`)
)

// DateParser normalizes heterogeneous date representations into the
// canonical YYYY-MM-DD HH:MM:SS string. The clock is injectable so tests
// and re-processing runs can pin "now".
type DateParser struct {
	Now func() time.Time
}

// NewDateParser returns a parser resolving relative dates against the
// wall clock.
func NewDateParser() *DateParser {
	return &DateParser{Now: time.Now}
}

// Parse normalizes raw. The second return value is false when no known
// form matched; callers must treat the input as a parse failure. Relative
// phrases are resolved against Now.
func (p *DateParser) Parse(raw string) (string, bool) {
	return p.ParseAt(raw, p.now())
}

// ParseAt is Parse with an explicit reference time for relative phrases.
// Extraction persists a fetch timestamp with every raw record so archived
// pages re-processed later resolve "il y a 2 heures" against fetch time,
// not the current run.
func (p *DateParser) ParseAt(raw string, ref time.Time) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(CanonicalLayout), true
		}
	}

	if m := absoluteRe.FindStringSubmatch(raw); m != nil {
		if month, ok := frenchMonths[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			hour, minute := 0, 0
			if m[4] != "" {
				hour, _ = strconv.Atoi(m[4])
				minute, _ = strconv.Atoi(m[5])
			}
			if day >= 1 && day <= 31 {
				t := time.Date(year, month, day, hour, minute, 0, 0, time.Local)
				return t.Format(CanonicalLayout), true
			}
		}
	}

	if m := relativeRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		var d time.Duration
		switch strings.ToLower(m[2]) {
		case "minute":
			d = time.Duration(n) * time.Minute
		case "heure":
			d = time.Duration(n) * time.Hour
		case "jour":
			d = time.Duration(n) * 24 * time.Hour
		case "semaine":
			d = time.Duration(n) * 7 * 24 * time.Hour
		case "mois":
			// Approximation kept from the source sites' own convention.
			d = time.Duration(n) * 30 * 24 * time.Hour
		}
		return ref.Add(-d).Format(CanonicalLayout), true
	}

	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(CanonicalLayout), true
		}
	}

	return "", false
}

// ParseOrNow is the general-purpose variant: on failure it falls back to
// the current wall-clock time instead of reporting the failure. It never
// errors; downstream consumers treat unparseable dates as low-confidence.
func (p *DateParser) ParseOrNow(raw string) string {
	if s, ok := p.Parse(raw); ok {
		return s
	}
	return p.now().Format(CanonicalLayout)
}

// ParseCanonical reads a canonical date string back into a time.Time.
// Both the full form and the date-only form are accepted.
func ParseCanonical(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(CanonicalLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("non-canonical date %q", s)
}

func (p *DateParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
