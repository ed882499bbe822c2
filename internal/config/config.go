// Package config provides configuration management for s1scan.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the complete application configuration loaded from
// environment variables. All variables carry the S1SCAN_ prefix.
type Config struct {
	Search  SearchConfig  `envPrefix:"SEARCH_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// SearchConfig contains the engine defaults. CLI flags override these per
// invocation.
type SearchConfig struct {
	// Workers is the worker pool size.
	Workers int `env:"WORKERS" envDefault:"4"`

	// RampDelay is how long the controller waits before deciding whether
	// to launch workers beyond the first.
	RampDelay time.Duration `env:"RAMP_DELAY" envDefault:"2s"`

	// DescriptorExt is the sidecar metadata file extension.
	DescriptorExt string `env:"DESCRIPTOR_EXT" envDefault:".xml"`

	// ArchiveExt is the data archive extension substituted into result
	// identifiers.
	ArchiveExt string `env:"ARCHIVE_EXT" envDefault:".zip"`

	// SkipTile is the tile directory name reserved for the non-relevant
	// acquisition mode; it is always pruned.
	SkipTile string `env:"SKIP_TILE" envDefault:"UNGRIDDED"`

	// Direction is the default requested pass direction.
	Direction string `env:"DIRECTION" envDefault:"Descending"`
}

// ServerConfig contains serve-mode HTTP configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"300s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Root is the archive root served by /search. Required in serve mode
	// only, so it is validated there rather than at load time.
	Root string `env:"ROOT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		Prefix: "S1SCAN_",
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Search.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.Search.Workers)
	}

	if c.Search.RampDelay < 0 {
		return fmt.Errorf("ramp delay must not be negative, got %s", c.Search.RampDelay)
	}

	if !strings.HasPrefix(c.Search.DescriptorExt, ".") {
		return fmt.Errorf("descriptor extension must start with '.', got %q", c.Search.DescriptorExt)
	}

	if !strings.HasPrefix(c.Search.ArchiveExt, ".") {
		return fmt.Errorf("archive extension must start with '.', got %q", c.Search.ArchiveExt)
	}

	if !strings.EqualFold(c.Search.Direction, "ascending") && !strings.EqualFold(c.Search.Direction, "descending") {
		return fmt.Errorf("direction must be 'Ascending' or 'Descending', got %q", c.Search.Direction)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
