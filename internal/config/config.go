// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the CLI's environment-driven settings. The input path is
// not configuration: it arrives as a positional argument.
type Config struct {
	// LogLevel controls stderr verbosity. The default keeps expected skip
	// outcomes silent; "info" adds the end-of-run summary and "debug" adds
	// a line per skipped event.
	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
