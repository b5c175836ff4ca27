package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables recognised by Load.
const (
	EnvPrefix  = "MERGINGTON_"
	EnvConfig  = EnvPrefix + "CONFIG"
	EnvEnvFile = EnvPrefix + "ENV_FILE"

	defaultEnvFile = ".env"
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. dotenv file (MERGINGTON_ENV_FILE, or ./.env when present); it only
//     fills variables that are not already set in the process environment
//  3. YAML file if MERGINGTON_CONFIG is set
//  4. env (prefix MERGINGTON_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MERGINGTON_ENFORCE_CAPACITY -> enforce_capacity (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot coerce into something usable.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	case c.MetricsIntervalMS <= 0:
		return fmt.Errorf("%w: metrics_interval_ms must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "tint":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	for _, name := range []string{c.MetricsNamespace, c.MetricsSubsystem, c.MetricsPrefix} {
		if !validMetricName(name) {
			return fmt.Errorf("%w: invalid metric name part %q", ErrInvalidConfig, name)
		}
	}
	for label := range c.MetricsLabels {
		if label == "" || !validMetricName(label) || strings.HasPrefix(label, "__") {
			return fmt.Errorf("%w: invalid metrics label %q", ErrInvalidConfig, label)
		}
	}
	for _, b := range c.MetricsBuckets {
		if b <= 0 {
			return fmt.Errorf("%w: metrics_buckets must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// validMetricName reports whether s is empty or usable inside a
// Prometheus metric name.
func validMetricName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func loadDotenv() error {
	path := os.Getenv(EnvEnvFile)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
