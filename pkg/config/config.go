// Package config provides the YAML configuration for serve mode.
//
// A config file is optional for one-shot CLI runs; the serve command
// loads one to know which feeds to publish, where to listen, and which
// backing services (Redis, MongoDB) to attach.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daygrid/daygrid/pkg/source/ics"
)

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	DB       int    `yaml:"db,omitempty" json:"db,omitempty"`
}

// MongoConfig holds connection settings for the snapshot store.
type MongoConfig struct {
	URI      string `yaml:"uri" json:"uri"`
	Database string `yaml:"database" json:"database"`
}

// FrameConfig overrides default day-grid geometry.
type FrameConfig struct {
	Width      float64 `yaml:"width,omitempty" json:"width,omitempty"`
	HourHeight float64 `yaml:"hour_height,omitempty" json:"hour_height,omitempty"`

	// GridStart/GridEnd are minutes from midnight, e.g. 420 for 07:00.
	GridStart int `yaml:"grid_start,omitempty" json:"grid_start,omitempty"`
	GridEnd   int `yaml:"grid_end,omitempty" json:"grid_end,omitempty"`
}

// Config is the top-level serve configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone (e.g. "America/Chicago").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is the first day of week-view windows: "monday" or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron expression for periodic feed refresh
	// (e.g. "*/15 * * * *"). Empty disables the refresh worker.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Feeds are the ICS subscriptions served by this instance.
	Feeds []ics.Feed `yaml:"feeds" json:"feeds"`

	// Frame overrides default grid geometry.
	Frame FrameConfig `yaml:"frame,omitempty" json:"frame,omitempty"`

	// Style is the default render style: "light" or "dark".
	Style string `yaml:"style,omitempty" json:"style,omitempty"`

	// Redis, if non-nil, enables the Redis cache backend. Without it the
	// server falls back to a file cache.
	Redis *RedisConfig `yaml:"redis,omitempty" json:"redis,omitempty"`

	// Mongo, if non-nil, enables the snapshot store and its endpoints.
	Mongo *MongoConfig `yaml:"mongo,omitempty" json:"mongo,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Local",
		WeekStart:   "monday",
		RefreshCron: "*/15 * * * *",
		Style:       "light",
		Feeds:       []ics.Feed{},
	}
}

// Normalize fills in missing/zero values with defaults so partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	switch c.Style {
	case "light", "dark":
	default:
		c.Style = "light"
	}
	if c.Feeds == nil {
		c.Feeds = []ics.Feed{}
	}
}

// Validate checks values Normalize cannot repair.
func (c *Config) Validate() error {
	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	seen := make(map[string]bool)
	for _, feed := range c.Feeds {
		if feed.ID == "" {
			return errors.New("feed without id")
		}
		if feed.URL == "" {
			return fmt.Errorf("feed %s without url", feed.ID)
		}
		if seen[feed.ID] {
			return fmt.Errorf("duplicate feed id %s", feed.ID)
		}
		seen[feed.ID] = true
	}
	if c.Mongo != nil && c.Mongo.URI == "" {
		return errors.New("mongo section without uri")
	}
	return nil
}

// Feed returns the configured feed with the given ID.
func (c *Config) Feed(id string) (ics.Feed, bool) {
	for _, feed := range c.Feeds {
		if feed.ID == id {
			return feed, true
		}
	}
	return ics.Feed{}, false
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600,
// feed URLs may carry tokens) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if werr := Save(path, cfg); werr != nil {
				return cfg, werr
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration to the given path with 0600 permissions.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}
