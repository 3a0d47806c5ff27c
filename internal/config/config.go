// Package config loads service settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all dewey configuration.
type Config struct {
	// SQLite database with the classification table
	DatabasePath string `yaml:"database_path" env:"DEWEY_DB"`

	// HTTP listen address
	Addr string `yaml:"addr" env:"DEWEY_ADDR"`

	// How long in-flight requests get to finish on shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DEWEY_SHUTDOWN_TIMEOUT"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"DEWEY_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"DEWEY_LOG_FORMAT"` // json, console
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:    filepath.Join(home, ".dewey", "ddc.db"),
		Addr:            ":8000",
		ShutdownTimeout: 10 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load applies the YAML file at path (if non-empty) over the defaults, then
// environment variables over that.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
