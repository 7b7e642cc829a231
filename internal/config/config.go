// Package config reads the FOX5_* environment settings shared by the
// command-line tools.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/provide-io/fox5/go/fox5/pkg/export"
)

// Config holds environment-driven defaults. Command-line flags override
// these values.
type Config struct {
	LogLevel     string `env:"FOX5_LOG_LEVEL" envDefault:"warn"`
	JSONLog      bool   `env:"FOX5_JSON_LOG"`
	CacheSize    int    `env:"FOX5_CACHE_SIZE" envDefault:"64"`
	ExportFormat string `env:"FOX5_EXPORT_FORMAT" envDefault:"png"`
}

// Load reads the process environment
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the tools cannot work with
func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("FOX5_CACHE_SIZE must not be negative, got %d", c.CacheSize)
	}
	c.ExportFormat = strings.ToLower(c.ExportFormat)
	if _, _, err := export.Encoder(c.ExportFormat); err != nil {
		return fmt.Errorf("FOX5_EXPORT_FORMAT: %w", err)
	}
	return nil
}
