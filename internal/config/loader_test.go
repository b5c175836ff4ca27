package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mergington/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		t.Chdir(t.TempDir())
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.EnforceCapacity, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MERGINGTON_ADDR", ":8080")
			_ = os.Setenv("MERGINGTON_LOG_FORMAT", "json")
			_ = os.Setenv("MERGINGTON_ENFORCE_CAPACITY", "true")
			_ = os.Setenv("MERGINGTON_SHUTDOWN_TIMEOUT_MS", "5000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.EnforceCapacity, convey.ShouldBeTrue)
				convey.So(cfg.ShutdownTimeoutMS, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeFile(t, "config.yaml", `
addr: ":9090"
log_level: debug
enforce_capacity: true
metrics_interval_ms: 2500
`)
			_ = os.Setenv("MERGINGTON_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.EnforceCapacity, convey.ShouldBeTrue)
				convey.So(cfg.MetricsIntervalMS, convey.ShouldEqual, 2500)
				convey.So(cfg.ShutdownTimeoutMS, convey.ShouldEqual, 30_000)
			})
		})

		convey.Convey("When the YAML file configures metrics", func() {
			path := writeFile(t, "config.yaml", `
metrics_enabled: false
metrics_namespace: campus
metrics_prefix: v2
metrics_labels:
  env: staging
  region: eu
metrics_buckets: [1, 10, 100]
`)
			_ = os.Setenv("MERGINGTON_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then the metrics settings should be applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "campus")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "records")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "v2")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "staging", "region": "eu"})
				convey.So(cfg.MetricsBuckets, convey.ShouldResemble, []float64{1, 10, 100})
			})
		})

		convey.Convey("When metrics are disabled through the environment", func() {
			_ = os.Setenv("MERGINGTON_METRICS_ENABLED", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then recording should be off", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			path := writeFile(t, "config.yaml", "addr: \":9090\"\nlog_level: debug\n")
			_ = os.Setenv("MERGINGTON_CONFIG", path)
			_ = os.Setenv("MERGINGTON_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When a dotenv file is present in the working directory", func() {
			writeFile(t, ".env", "MERGINGTON_ADDR=:7070\nMERGINGTON_LOG_LEVEL=warn\n")

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables should be applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When the process environment and the dotenv file disagree", func() {
			writeFile(t, ".env", "MERGINGTON_ADDR=:7070\n")
			_ = os.Setenv("MERGINGTON_ADDR", ":6060")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the process environment should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When an explicit dotenv file does not exist", func() {
			_ = os.Setenv("MERGINGTON_ENV_FILE", "/non/existent/.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeFile(t, "config.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("MERGINGTON_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MERGINGTON_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MERGINGTON_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("MERGINGTON_LOG_FORMAT", "xml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MERGINGTON_SHUTDOWN_TIMEOUT_MS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive timeout", func() {
			_ = os.Setenv("MERGINGTON_METRICS_INTERVAL_MS", "0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(".", name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", name, err)
	}
	return abs
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MERGINGTON_CONFIG",
		"MERGINGTON_ENV_FILE",
		"MERGINGTON_ADDR",
		"MERGINGTON_LOG_LEVEL",
		"MERGINGTON_LOG_FORMAT",
		"MERGINGTON_ENFORCE_CAPACITY",
		"MERGINGTON_SHUTDOWN_TIMEOUT_MS",
		"MERGINGTON_METRICS_INTERVAL_MS",
		"MERGINGTON_METRICS_ENABLED",
	} {
		_ = os.Unsetenv(key)
	}
}
