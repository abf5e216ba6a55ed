package normalize

import (
	"sort"
	"strings"
)

// The nine standard thematic labels.
const (
	LabelPolitique     = "Politique"
	LabelEconomie      = "Économie"
	LabelSecurite      = "Sécurité"
	LabelSante         = "Santé"
	LabelCulture       = "Culture"
	LabelSport         = "Sport"
	LabelInternational = "International"
	LabelSociete       = "Société"
	LabelAutre         = "Autre"
)

// StandardLabels lists the nine labels in their fixed order.
var StandardLabels = []string{
	LabelPolitique,
	LabelEconomie,
	LabelSecurite,
	LabelSante,
	LabelCulture,
	LabelSport,
	LabelInternational,
	LabelSociete,
	LabelAutre,
}

// categoryToLabel maps lowercased raw category strings to standard labels.
// French and English spelling variants per theme.
var categoryToLabel = map[string]string{
	// Politique
	"politique":    LabelPolitique,
	"politiques":   LabelPolitique,
	"gouvernement": LabelPolitique,
	"parlement":    LabelPolitique,
	"assemblée":    LabelPolitique,
	"élection":     LabelPolitique,
	"elections":    LabelPolitique,

	// Économie
	"economie":    LabelEconomie,
	"économie":    LabelEconomie,
	"finance":     LabelEconomie,
	"finances":    LabelEconomie,
	"budget":      LabelEconomie,
	"commerce":    LabelEconomie,
	"entreprise":  LabelEconomie,
	"entreprises": LabelEconomie,
	"économique":  LabelEconomie,

	// Sécurité
	"securite":          LabelSecurite,
	"sécurité":          LabelSecurite,
	"defense":           LabelSecurite,
	"défense":           LabelSecurite,
	"armée":             LabelSecurite,
	"militaire":         LabelSecurite,
	"police":            LabelSecurite,
	"terrorisme":        LabelSecurite,
	"justice":           LabelSecurite,
	"nouvelle-du-front": LabelSecurite,

	// Santé
	"sante":    LabelSante,
	"santé":    LabelSante,
	"medical":  LabelSante,
	"médical":  LabelSante,
	"hopital":  LabelSante,
	"hôpital":  LabelSante,
	"covid":    LabelSante,
	"pandemie": LabelSante,
	"pandémie": LabelSante,

	// Culture
	"culture":    LabelCulture,
	"cultures":   LabelCulture,
	"art":        LabelCulture,
	"arts":       LabelCulture,
	"festival":   LabelCulture,
	"festivals":  LabelCulture,
	"musique":    LabelCulture,
	"cinema":     LabelCulture,
	"cinéma":     LabelCulture,
	"theatre":    LabelCulture,
	"théâtre":    LabelCulture,
	"patrimoine": LabelCulture,

	// Sport
	"sport":       LabelSport,
	"sports":      LabelSport,
	"football":    LabelSport,
	"basketball":  LabelSport,
	"athletisme":  LabelSport,
	"athlétisme":  LabelSport,
	"competition": LabelSport,
	"compétition": LabelSport,

	// International
	"international": LabelInternational,
	"monde":         LabelInternational,
	"afrique":       LabelInternational,
	"europe":        LabelInternational,
	"amerique":      LabelInternational,
	"amérique":      LabelInternational,
	"asie":          LabelInternational,
	"diplomatie":    LabelInternational,
	"cooperation":   LabelInternational,
	"coopération":   LabelInternational,

	// Société
	"societe":       LabelSociete,
	"société":       LabelSociete,
	"social":        LabelSociete,
	"education":     LabelSociete,
	"éducation":     LabelSociete,
	"jeunesse":      LabelSociete,
	"femme":         LabelSociete,
	"femmes":        LabelSociete,
	"enfant":        LabelSociete,
	"enfants":       LabelSociete,
	"famille":       LabelSociete,
	"environnement": LabelSociete,
	"religion":      LabelSociete,

	// Divers
	"depeches":   LabelAutre,
	"dépêches":   LabelAutre,
	"evenements": LabelAutre,
	"événements": LabelAutre,
	"medias":     LabelAutre,
	"médias":     LabelAutre,
}

// substringKeys holds the table keys ordered longest first (ties broken
// lexicographically) so the substring fallback is deterministic and
// prefers the most specific match rather than map iteration order.
var substringKeys = func() []string {
	keys := make([]string, 0, len(categoryToLabel))
	for k := range categoryToLabel {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Label normalizes a raw category string to one of the nine standard
// labels. Exact lookup on the lowercased, trimmed input; on miss, the
// longest table key that contains the input or is contained in it wins;
// on complete miss the catch-all "Autre" is returned.
func Label(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	if clean == "" {
		return LabelAutre
	}

	if label, ok := categoryToLabel[clean]; ok {
		return label
	}

	for _, key := range substringKeys {
		if strings.Contains(clean, key) || strings.Contains(key, clean) {
			return categoryToLabel[key]
		}
	}

	return LabelAutre
}

// ValidLabel reports whether label is one of the nine standard labels.
func ValidLabel(label string) bool {
	for _, l := range StandardLabels {
		if l == label {
			return true
		}
	}
	return false
}

// LabelDistribution counts articles per standard label. Unknown labels
// count toward "Autre".
func LabelDistribution(labels []string) map[string]int {
	dist := make(map[string]int, len(StandardLabels))
	for _, l := range StandardLabels {
		dist[l] = 0
	}
	for _, l := range labels {
		if _, ok := dist[l]; ok {
			dist[l]++
		} else {
			dist[LabelAutre]++
		}
	}
	return dist
}
