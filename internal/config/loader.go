package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const weightSumTolerance = 1e-6

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if ALLOC_CONFIG is set
//  3. env (prefix ALLOC_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ALLOC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ALLOC_ADDR, ALLOC_PROVIDER_TIMEOUT_MS, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("ALLOC_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "alloc_")
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
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ProviderTimeoutMS <= 0 {
		return fmt.Errorf("%w: provider_timeout_ms must be positive", ErrInvalidConfig)
	}
	if cfg.CandidateCap < 1 {
		return fmt.Errorf("%w: candidate_cap must be at least 1", ErrInvalidConfig)
	}
	if cfg.WeeklyCapacitySlots < 1 {
		return fmt.Errorf("%w: weekly_capacity_slots must be at least 1", ErrInvalidConfig)
	}
	if len(cfg.ScoreWeights) > 0 {
		var sum float64
		for _, w := range cfg.ScoreWeights {
			sum += w
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			return fmt.Errorf("%w: score_weights must sum to 1.0, got %v", ErrInvalidConfig, sum)
		}
	}
	return nil
}
