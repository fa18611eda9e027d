// Package config loads game settings from the environment and command line.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of a game process. Environment values are
// loaded first; flags given on the command line override them.
type Config struct {
	Size         int    `env:"WORDCROSS_SIZE" envDefault:"0"`
	Seed         int64  `env:"WORDCROSS_SEED" envDefault:"0"`
	LogLevel     string `env:"WORDCROSS_LOG_LEVEL" envDefault:"warn"`
	HistoryDB    string `env:"WORDCROSS_HISTORY_DB"`
	SpectateAddr string `env:"WORDCROSS_SPECTATE_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Bind registers flags on fs whose defaults are the current values of cfg.
func (cfg *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Size, "size", cfg.Size, "grid size (even); 0 prompts for it")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "shuffle seed; 0 seeds from the clock")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")
	fs.StringVar(&cfg.HistoryDB, "history", cfg.HistoryDB, "SQLite file recording every round; empty disables it")
	fs.StringVar(&cfg.SpectateAddr, "spectate", cfg.SpectateAddr, "listen address for the spectator feed; empty disables it")
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		return nil, fmt.Errorf("flag parser is required")
	}
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Bind(fs)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
