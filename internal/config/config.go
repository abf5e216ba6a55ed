package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for mediascan.
type Config struct {
	Scrape    ScrapeConfig    `mapstructure:"scrape"    yaml:"scrape"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ScrapeConfig controls the extraction layer.
type ScrapeConfig struct {
	Concurrency    int           `mapstructure:"concurrency"     yaml:"concurrency"`
	MaxPages       int           `mapstructure:"max_pages"       yaml:"max_pages"`
	DownloadDelay  time.Duration `mapstructure:"download_delay"  yaml:"download_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	SourcesFile    string        `mapstructure:"sources_file"    yaml:"sources_file"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
}

// FetcherConfig controls the HTTP client.
type FetcherConfig struct {
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// StorageConfig controls where scraped and processed data lands.
type StorageConfig struct {
	RawDir        string `mapstructure:"raw_dir"        yaml:"raw_dir"`
	ProcessedDir  string `mapstructure:"processed_dir"  yaml:"processed_dir"`
	SnapshotFile  string `mapstructure:"snapshot_file"  yaml:"snapshot_file"`
	Backend       string `mapstructure:"backend"        yaml:"backend"` // sqlite, mongo, none
	SQLitePath    string `mapstructure:"sqlite_path"    yaml:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// AnalysisConfig carries the weights and thresholds used by the stats
// engine. Injected explicitly so tests can pin their own values.
type AnalysisConfig struct {
	InfluenceWeights   InfluenceWeights `mapstructure:"influence_weights"    yaml:"influence_weights"`
	ToxicityThreshold  float64          `mapstructure:"toxicity_threshold"   yaml:"toxicity_threshold"`
	TimelineDays       int              `mapstructure:"timeline_days"        yaml:"timeline_days"`
	ActivityWindowDays int              `mapstructure:"activity_window_days" yaml:"activity_window_days"`
}

// InfluenceWeights are the five sub-score weights of the influence score.
// They must sum to 1.0.
type InfluenceWeights struct {
	Volume     float64 `mapstructure:"volume"     yaml:"volume"`
	Engagement float64 `mapstructure:"engagement" yaml:"engagement"`
	Reach      float64 `mapstructure:"reach"      yaml:"reach"`
	Regularity float64 `mapstructure:"regularity" yaml:"regularity"`
	Diversity  float64 `mapstructure:"diversity"  yaml:"diversity"`
}

// Sum returns the total of the five weights.
func (w InfluenceWeights) Sum() float64 {
	return w.Volume + w.Engagement + w.Reach + w.Regularity + w.Diversity
}

// DashboardConfig controls the analytics HTTP server.
type DashboardConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			Concurrency:    16,
			MaxPages:       10,
			DownloadDelay:  1 * time.Second,
			RequestTimeout: 30 * time.Second,
			SourcesFile:    "sources.yaml",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
		},
		Fetcher: FetcherConfig{
			MaxBodySize:     10 * 1024 * 1024,
			FollowRedirects: true,
			MaxRedirects:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Storage: StorageConfig{
			RawDir:        "data/raw",
			ProcessedDir:  "data/processed",
			SnapshotFile:  "data/processed/sample_data.json",
			Backend:       "sqlite",
			SQLitePath:    "database/media_scan.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "mediascan",
		},
		Analysis: AnalysisConfig{
			InfluenceWeights: InfluenceWeights{
				Volume:     0.20,
				Engagement: 0.35,
				Reach:      0.25,
				Regularity: 0.10,
				Diversity:  0.10,
			},
			ToxicityThreshold:  0.3,
			TimelineDays:       30,
			ActivityWindowDays: 90,
		},
		Dashboard: DashboardConfig{
			Port: 8501,
			Mode: "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
