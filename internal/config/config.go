// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Vinted        VintedConfig        `yaml:"vinted"`
	Profiles      []string            `yaml:"profiles"`
	History       HistoryConfig       `yaml:"history"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Watch         WatchConfig         `yaml:"watch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// VintedConfig defines how items are fetched from Vinted.
type VintedConfig struct {
	// APIHost is the host used for the RSS feed and enrichment calls.
	APIHost string `yaml:"api_host"`
	// BaseURL is the public base used when constructing item links.
	BaseURL   string          `yaml:"base_url"`
	PerPage   int             `yaml:"per_page"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Actor     ActorConfig     `yaml:"actor"`
	Enrich    bool            `yaml:"enrich"`
}

// RateLimitConfig defines outbound request pacing toward Vinted.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ActorConfig defines the optional structured-data actor source. The tier is
// active only when all three fields are set.
type ActorConfig struct {
	BaseURL string `yaml:"base_url"`
	ActorID string `yaml:"actor_id"`
	Token   string `yaml:"token"`
}

// Enabled reports whether the actor tier is configured.
func (a *ActorConfig) Enabled() bool {
	return a.ActorID != "" && a.Token != ""
}

// HistoryConfig defines where seen item IDs are persisted.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // file, postgres
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord    DiscordConfig `yaml:"discord"`
	ChunkDelay time.Duration `yaml:"chunk_delay"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// WatchConfig defines watch-mode behavior.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Listen   string        `yaml:"listen"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A missing file yields a default config so the
// CLI can run from flags and environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Flags and env vars carry the run.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// ParseProfiles splits a comma- or semicolon-separated profile list, keeping
// only all-digit IDs.
func ParseProfiles(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if isDigits(part) {
			ids = append(ids, part)
		}
	}
	return ids
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func applyDefaults(cfg *Config) {
	applyVintedDefaults(&cfg.Vinted)
	applyHistoryDefaults(&cfg.History)
	applyNotificationsDefaults(&cfg.Notifications)
	applyWatchDefaults(&cfg.Watch)
	applyLoggingDefaults(&cfg.Logging)
}

func applyVintedDefaults(v *VintedConfig) {
	if v.APIHost == "" {
		v.APIHost = "https://www.vinted.com"
	}
	if v.BaseURL == "" {
		v.BaseURL = "https://www.vinted.com"
	}
	if v.PerPage == 0 {
		v.PerPage = 20
	}
	if v.Timeout == 0 {
		v.Timeout = 15 * time.Second
	}
	if v.RateLimit.PerSecond == 0 {
		v.RateLimit.PerSecond = 2.0
	}
	if v.RateLimit.Burst == 0 {
		v.RateLimit.Burst = 4
	}
	if v.Actor.BaseURL == "" {
		v.Actor.BaseURL = "https://api.apify.com"
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Backend == "" {
		h.Backend = "file"
	}
	if h.Path == "" {
		h.Path = "last_items.json"
	}
}

func applyNotificationsDefaults(n *NotificationsConfig) {
	if n.ChunkDelay == 0 {
		n.ChunkDelay = 400 * time.Millisecond
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Interval == 0 {
		w.Interval = 15 * time.Minute
	}
	if w.Listen == "" {
		w.Listen = "0.0.0.0:8080"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.History.Backend {
	case "file":
		if cfg.History.Path == "" {
			errs = append(errs, fmt.Errorf("history.path is required when backend is file"))
		}
	case "postgres":
		if cfg.History.DSN == "" {
			errs = append(errs, fmt.Errorf("history.dsn is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"history.backend must be one of: file, postgres (got %q)",
			cfg.History.Backend,
		))
	}

	for _, p := range cfg.Profiles {
		if !isDigits(p) {
			errs = append(errs, fmt.Errorf("profiles: %q is not a numeric member ID", p))
		}
	}

	return errors.Join(errs...)
}
