// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text, json or tint.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// EnforceCapacity rejects signups once an activity reaches
	// max_participants. Off by default.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MetricsIntervalMS controls how often gauges are refreshed.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`

	// MetricsEnabled turns Prometheus recording on or off. /metrics is
	// served either way.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem name the exported series,
	// e.g. mergington_records_signups_total.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsPrefix is prepended to every metric name. Optional.
	MetricsPrefix string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels attached to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBuckets overrides the latency histogram buckets (ms).
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		EnforceCapacity:   false,
		ShutdownTimeoutMS: 30_000,
		MetricsIntervalMS: 10_000,
		MetricsEnabled:    true,
		MetricsNamespace:  "mergington",
		MetricsSubsystem:  "records",
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// MetricsInterval returns MetricsIntervalMS as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalMS) * time.Millisecond
}
