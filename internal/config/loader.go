package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VELO_CONFIG is set
//  3. env (prefix VELO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("VELO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: VELO_ADDR, VELO_DECAY_ALPHA, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("VELO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "velo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.System != SystemElo && cfg.System != SystemGlicko:
		return fmt.Errorf("%w: unknown rating system %q", ErrInvalidConfig, cfg.System)
	case cfg.DecayAlpha <= 0 || cfg.DecayBeta <= 0:
		return fmt.Errorf("%w: decay exponents must be positive", ErrInvalidConfig)
	case cfg.SeasonRegression < 0 || cfg.SeasonRegression > 1:
		return fmt.Errorf("%w: season_regression must be in [0,1]", ErrInvalidConfig)
	case cfg.GlickoTau <= 0:
		return fmt.Errorf("%w: glicko_tau must be positive", ErrInvalidConfig)
	case cfg.GlickoInitialDeviation <= 0 || cfg.GlickoInitialVolatility <= 0:
		return fmt.Errorf("%w: glicko seeds must be positive", ErrInvalidConfig)
	}
	return nil
}
