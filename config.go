package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"qtermlab/qcengine"
)

// Config holds settings read from the environment. Command-line flags
// override the matching fields.
type Config struct {
	Shots     int    `env:"QTERMLAB_SHOTS"      envDefault:"1024"`
	Seed      int64  `env:"QTERMLAB_SEED"       envDefault:"0"`
	MaxQubits int    `env:"QTERMLAB_MAX_QUBITS" envDefault:"24"`
	MaxShots  int    `env:"QTERMLAB_MAX_SHOTS"  envDefault:"100000"`
	LogLevel  string `env:"QTERMLAB_LOG_LEVEL"  envDefault:"info"`
	LogFile   string `env:"QTERMLAB_LOG_FILE"`
	HistoryDB string `env:"QTERMLAB_HISTORY_DB"`
}

// loadConfig parses the process environment.
func loadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxQubits < 1 || c.MaxQubits > qcengine.MaxQubitsLimit {
		return fmt.Errorf("QTERMLAB_MAX_QUBITS must be in 1..%d, got %d", qcengine.MaxQubitsLimit, c.MaxQubits)
	}
	if c.MaxShots < 1 {
		return fmt.Errorf("QTERMLAB_MAX_SHOTS must be positive, got %d", c.MaxShots)
	}
	if c.Shots < 1 || c.Shots > c.MaxShots {
		return fmt.Errorf("QTERMLAB_SHOTS must be in 1..%d, got %d", c.MaxShots, c.Shots)
	}
	return nil
}

// runOptions translates the config into engine options. A zero seed leaves
// seeding to the engine.
func (c Config) runOptions(seed int64) []qcengine.Option {
	opts := []qcengine.Option{
		qcengine.WithMaxQubits(c.MaxQubits),
		qcengine.WithMaxShots(c.MaxShots),
	}
	if seed != 0 {
		opts = append(opts, qcengine.WithSeed(seed))
	}
	return opts
}
