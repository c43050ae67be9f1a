package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

type Config struct {
	ExportRoot string   `toml:"export_root"`
	DBPath     string   `toml:"db_path"`
	CacheDir   string   `toml:"cache_dir"`
	Timezone   string   `toml:"timezone"`
	Lang       string   `toml:"lang"`
	SelfNames  []string `toml:"self_names"`
	Exclude    []string `toml:"exclude"`
	Workers    int      `toml:"workers"`
	LogLevel   string   `toml:"log_level"`
	LogFormat  string   `toml:"log_format"`

	location *time.Location
}

// Load reads ~/.config/cev/config.toml (or $CEV_CONFIG) over the defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ExportRoot: filepath.Join(home, "Downloads"),
		DBPath:     filepath.Join(home, ".config", "cev", "cev.db"),
		CacheDir:   filepath.Join(home, ".cache", "cev"),
		Timezone:   "UTC",
		Lang:       "en",
		Workers:    4,
		LogLevel:   "info",
		LogFormat:  "text",
	}

	cfgPath := os.Getenv("CEV_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "cev", "config.toml")
	}
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.CacheDir = expandHome(cfg.CacheDir, home)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if cfg.Lang != "ar" {
		cfg.Lang = "en"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	return cfg, nil
}

// Location is the zone export timestamps are read in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) Normalizer() parse.Normalizer {
	return parse.Normalizer{Location: c.Location()}
}

// SessionOptions returns the options used to load export files.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		CacheDir:   c.CacheDir,
		Workers:    c.Workers,
		Normalizer: c.Normalizer(),
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
