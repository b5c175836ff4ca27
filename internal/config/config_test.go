package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/mergington/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.EnforceCapacity, convey.ShouldBeFalse)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.MetricsInterval(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "mergington")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "records")
			convey.So(cfg.MetricsLabels, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_ValidateMetrics(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the namespace contains a dash", func() {
			cfg.MetricsNamespace = "mergington-high"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the prefix starts with a digit", func() {
			cfg.MetricsPrefix = "9lives"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a label name is reserved", func() {
			cfg.MetricsLabels = map[string]string{"__name__": "x"}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a bucket is not positive", func() {
			cfg.MetricsBuckets = []float64{0, 10}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When every metrics setting is well formed", func() {
			cfg.MetricsPrefix = "v2"
			cfg.MetricsLabels = map[string]string{"env": "staging"}
			cfg.MetricsBuckets = []float64{1, 10, 100}
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
