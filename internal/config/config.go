// Package config loads process settings from the environment.
//
// Command-line flags override these values; the environment supplies
// defaults so scripted runs can configure the decider without flags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-provided settings.
type Config struct {
	// DB is the SQLite path used to record decisions. Empty disables recording.
	DB string `env:"TURING_DB"`

	// MaxSteps is the per-run transition ceiling. Zero or negative disables it.
	MaxSteps int `env:"TURING_MAX_STEPS" envDefault:"1000000"`

	// Workers bounds concurrent decisions during exploration.
	// Zero means one worker per CPU.
	Workers int `env:"TURING_WORKERS" envDefault:"0"`

	// LogFile, when set, receives JSON logs in addition to stderr.
	LogFile string `env:"TURING_LOG_FILE"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("parse env: TURING_WORKERS must be non-negative, got %d", cfg.Workers)
	}
	return cfg, nil
}
