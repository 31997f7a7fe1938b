package config

import (
	"fmt"
	"time"

	"osrs-flipper/internal/engine"
)

// Config holds settings shared by the collector and the flip finder CLI.
// Values come from a YAML file (with ${VAR} env expansion) and may be
// overridden per-run by command-line flags.
type Config struct {
	DBPath              string `yaml:"db_path"`
	MappingURL          string `yaml:"mapping_url"`
	LatestURL           string `yaml:"latest_url"`
	UserAgent           string `yaml:"user_agent"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`

	// Flip report parameters.
	WindowMinutes int    `yaml:"window_minutes"`
	MinSamples    int    `yaml:"min_samples"`
	TopN          int    `yaml:"top_n"`
	Strategy      string `yaml:"strategy"` // "windowed_quantile" or "snapshot"
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath:     "osrs_prices.db",
		MappingURL: "https://prices.runescape.wiki/api/v1/osrs/mapping",
		LatestURL:  "https://prices.runescape.wiki/api/v1/osrs/latest",
		// The wiki API requires a descriptive User-Agent with contact info.
		UserAgent:           "osrs-flipper/1.0 (contact: set user_agent in config)",
		FetchTimeoutSeconds: 10,
		WindowMinutes:       engine.DefaultWindowMinutes,
		MinSamples:          engine.DefaultMinSamples,
		TopN:                20,
		Strategy:            string(engine.WindowedQuantileMargin),
	}
}

// FetchTimeout returns the outbound HTTP timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.MappingURL == "" {
		c.MappingURL = def.MappingURL
	}
	if c.LatestURL == "" {
		c.LatestURL = def.LatestURL
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if c.WindowMinutes <= 0 {
		c.WindowMinutes = def.WindowMinutes
	}
	if c.MinSamples <= 0 {
		c.MinSamples = def.MinSamples
	}
	if c.TopN <= 0 {
		c.TopN = def.TopN
	}
	if c.Strategy == "" {
		c.Strategy = def.Strategy
	}
}

// Validate checks that the config values are usable.
func (c *Config) Validate() error {
	if c.WindowMinutes <= 0 {
		return fmt.Errorf("window_minutes must be positive, got %d", c.WindowMinutes)
	}
	if c.MinSamples <= 0 {
		return fmt.Errorf("min_samples must be positive, got %d", c.MinSamples)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	switch engine.Strategy(c.Strategy) {
	case engine.WindowedQuantileMargin, engine.SnapshotMargin:
	default:
		return fmt.Errorf("strategy must be windowed_quantile or snapshot, got %q", c.Strategy)
	}
	return nil
}
