package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source describes one media outlet in the roster file.
type Source struct {
	Key       string            `yaml:"key"`
	Name      string            `yaml:"name"`
	BaseURL   string            `yaml:"base_url"`
	TypeMedia string            `yaml:"type_media"` // web, facebook
	Enabled   bool              `yaml:"enabled"`
	FeedURL   string            `yaml:"feed_url,omitempty"`
	Rubrics   map[string]string `yaml:"rubrics,omitempty"`
}

// SourcesFile is the top-level structure of sources.yaml.
type SourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the media roster from a YAML file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var f SourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}
	return f.Sources, nil
}

// EnabledSources filters the roster down to enabled outlets.
func EnabledSources(sources []Source) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// DefaultSources returns the built-in roster of Burkinabè outlets, used
// when no sources.yaml is present.
func DefaultSources() []Source {
	return []Source{
		{
			Key:       "lefaso",
			Name:      "Lefaso.net",
			BaseURL:   "https://lefaso.net",
			TypeMedia: "web",
			Enabled:   true,
			Rubrics: map[string]string{
				"politique":     "https://lefaso.net/spip.php?rubrique2",
				"economie":      "https://lefaso.net/spip.php?rubrique3",
				"societe":       "https://lefaso.net/spip.php?rubrique4",
				"sport":         "https://lefaso.net/spip.php?rubrique5",
				"international": "https://lefaso.net/spip.php?rubrique7",
				"culture":       "https://lefaso.net/spip.php?rubrique18",
				"diplomatie":    "https://lefaso.net/spip.php?rubrique62",
			},
		},
		{
			Key:       "fasopresse",
			Name:      "FasoPresse",
			BaseURL:   "https://fasopresse.net",
			TypeMedia: "web",
			Enabled:   true,
		},
		{
			Key:       "sidwaya",
			Name:      "Sidwaya",
			BaseURL:   "https://www.sidwaya.info",
			TypeMedia: "web",
			Enabled:   true,
		},
		{
			Key:       "observateur_paalga",
			Name:      "L'Observateur Paalga",
			BaseURL:   "https://www.lobservateur.bf",
			TypeMedia: "web",
			Enabled:   true,
		},
		{
			Key:       "aib",
			Name:      "AIB (Agence d'Information du Burkina)",
			BaseURL:   "https://www.aib.media",
			TypeMedia: "web",
			Enabled:   true,
		},
		{
			Key:       "burkina_24",
			Name:      "Burkina 24",
			BaseURL:   "https://burkina24.com",
			TypeMedia: "web",
			Enabled:   true,
		},
		{
			Key:       "rtb",
			Name:      "RTB",
			BaseURL:   "https://facebook.com/rtbofficiel",
			TypeMedia: "facebook",
			Enabled:   false,
		},
		{
			Key:       "bf1",
			Name:      "BF1",
			BaseURL:   "https://facebook.com/bf1officiel",
			TypeMedia: "facebook",
			Enabled:   false,
		},
	}
}
