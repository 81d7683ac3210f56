package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheDuration = 30 // minutes
	DefaultEventsPerDay  = 3
	DefaultTimezone      = "UTC"
	DefaultColor         = "#3788d8"
)

type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Settings.CacheDuration == 0 {
		cfg.Settings.CacheDuration = DefaultCacheDuration
	}
	if cfg.Settings.EventsPerDay == 0 {
		cfg.Settings.EventsPerDay = DefaultEventsPerDay
	}
	if cfg.Settings.Timezone == "" {
		cfg.Settings.Timezone = DefaultTimezone
	}

	for i := range cfg.Feeds {
		if cfg.Feeds[i].Color == "" {
			cfg.Feeds[i].Color = DefaultColor
		}
	}

	if err := l.validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	// Resolve the display timezone once, at load time. An invalid identifier
	// is not fatal: fall back to the host timezone and keep going.
	cfg.loc = resolveLocation(cfg.Settings.Timezone)

	for _, feed := range cfg.Feeds {
		slog.Debug("Feed configuration loaded", "feed", feed.Name, "color", feed.Color, "offset", feed.Offset)
	}

	return &cfg, nil
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Settings.CacheDuration < 0 {
		return fmt.Errorf("cache duration must be non-negative")
	}
	if cfg.Settings.EventsPerDay < 0 {
		return fmt.Errorf("events per day must be non-negative")
	}

	for i, feed := range cfg.Feeds {
		// A feed without a URL is allowed (it is skipped at query time), but a
		// feed with a URL needs a name for the legend and for logging.
		if feed.URL != "" && feed.Name == "" {
			return fmt.Errorf("feed at index %d has a URL but no name", i)
		}
	}

	return nil
}

// Location returns the resolved display timezone. Configs built directly in
// tests resolve lazily on first call.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		c.loc = resolveLocation(c.Settings.Timezone)
	}
	return c.loc
}

func resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("Invalid timezone in settings, using host default", "timezone", timezone, "error", err)
		return time.Local
	}
	return loc
}
