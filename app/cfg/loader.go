package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	FeedsFile    string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"Path to the calendar feeds configuration file"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the refresh endpoint (optional)"`

	// Cache configuration
	CacheBackend string `long:"cache-backend" env:"CACHE_BACKEND" default:"memory" choice:"memory" choice:"redis" choice:"sqlite" description:"Feed cache backend"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address (cache-backend=redis)"`
	SQLitePath   string `long:"sqlite-path" env:"SQLITE_PATH" default:"./cache.db" description:"SQLite database path (cache-backend=sqlite)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"iCal Comb/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:         raw.Port,
		FeedsFile:    raw.FeedsFile,
		APIAccessKey: raw.APIAccessKey,
		CacheBackend: raw.CacheBackend,
		RedisAddr:    raw.RedisAddr,
		SQLitePath:   raw.SQLitePath,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
