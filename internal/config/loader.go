package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("MEDIASCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mediascan")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".mediascan"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration invariants.
func Validate(cfg *Config) error {
	if cfg.Scrape.Concurrency < 1 {
		return fmt.Errorf("scrape.concurrency must be >= 1, got %d", cfg.Scrape.Concurrency)
	}
	if cfg.Scrape.MaxPages < 1 {
		return fmt.Errorf("scrape.max_pages must be >= 1, got %d", cfg.Scrape.MaxPages)
	}
	if sum := cfg.Analysis.InfluenceWeights.Sum(); sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("analysis.influence_weights must sum to 1.0, got %.3f", sum)
	}
	if t := cfg.Analysis.ToxicityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("analysis.toxicity_threshold must be in [0,1], got %.2f", t)
	}
	switch cfg.Storage.Backend {
	case "sqlite", "mongo", "none":
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	return nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scrape.concurrency", cfg.Scrape.Concurrency)
	v.SetDefault("scrape.max_pages", cfg.Scrape.MaxPages)
	v.SetDefault("scrape.download_delay", cfg.Scrape.DownloadDelay)
	v.SetDefault("scrape.request_timeout", cfg.Scrape.RequestTimeout)
	v.SetDefault("scrape.sources_file", cfg.Scrape.SourcesFile)
	v.SetDefault("scrape.user_agent", cfg.Scrape.UserAgent)

	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)

	v.SetDefault("storage.raw_dir", cfg.Storage.RawDir)
	v.SetDefault("storage.processed_dir", cfg.Storage.ProcessedDir)
	v.SetDefault("storage.snapshot_file", cfg.Storage.SnapshotFile)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLitePath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)

	v.SetDefault("analysis.influence_weights.volume", cfg.Analysis.InfluenceWeights.Volume)
	v.SetDefault("analysis.influence_weights.engagement", cfg.Analysis.InfluenceWeights.Engagement)
	v.SetDefault("analysis.influence_weights.reach", cfg.Analysis.InfluenceWeights.Reach)
	v.SetDefault("analysis.influence_weights.regularity", cfg.Analysis.InfluenceWeights.Regularity)
	v.SetDefault("analysis.influence_weights.diversity", cfg.Analysis.InfluenceWeights.Diversity)
	v.SetDefault("analysis.toxicity_threshold", cfg.Analysis.ToxicityThreshold)
	v.SetDefault("analysis.timeline_days", cfg.Analysis.TimelineDays)
	v.SetDefault("analysis.activity_window_days", cfg.Analysis.ActivityWindowDays)

	v.SetDefault("dashboard.port", cfg.Dashboard.Port)
	v.SetDefault("dashboard.mode", cfg.Dashboard.Mode)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
