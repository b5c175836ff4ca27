package loadgen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/mergington/internal/adapters/http/api"
	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/domain/healthstats"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithFormat(&strings.Builder{}, logger.FormatText); err != nil {
		panic(err)
	}
}

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New()
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Signups: 50,
		Records: 50,
		Workers: 8,
		Timeout: 5 * time.Second,
		Verbose: true,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running records service", t, func() {
		srv := newService(t)
		ctx := context.Background()

		Convey("When a load run completes", func() {
			cfg := testConfig(srv.URL)
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "payload.json")
			stats, err := Run(ctx, cfg)

			Convey("Then every write should be acknowledged and verified", func() {
				So(err, ShouldBeNil)
				So(stats.SignupsSuccessful, ShouldEqual, 50)
				So(stats.RecordsSuccessful, ShouldEqual, 50)
				So(stats.SignupsFailed, ShouldEqual, 0)
				So(stats.RecordsFailed, ShouldEqual, 0)
				So(stats.RunID, ShouldHaveLength, 8)
			})

			Convey("Then the payload should be saved", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, stats.RunID)
			})

			Convey("Then the first activity by name should have received the signups", func() {
				acts, err := newHTTPClient(srv.URL, time.Second).Activities(ctx)
				So(err, ShouldBeNil)
				So(acts["Chess Club"].Participants, ShouldHaveLength, 52)
			})
		})

		Convey("When a second run follows the first", func() {
			_, err := Run(ctx, testConfig(srv.URL))
			So(err, ShouldBeNil)
			cfg := testConfig(srv.URL)
			cfg.Activity = "Gym Class"
			_, err = Run(ctx, cfg)

			Convey("Then it should verify against the grown state", func() {
				So(err, ShouldBeNil)
				records, err := newHTTPClient(srv.URL, time.Second).HealthRecords(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 100)
			})
		})

		Convey("When the activity does not exist", func() {
			cfg := testConfig(srv.URL)
			cfg.Activity = "Underwater Basket Weaving"
			_, err := Run(ctx, cfg)

			Convey("Then the run should be rejected", func() {
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given no service", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))

		Convey("Then the run should fail the health check", func() {
			So(errors.Is(err, ErrServiceUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given an invalid config", t, func() {
		for _, cfg := range []*Config{
			nil,
			{Workers: 1, Timeout: time.Second},
			{BaseURL: "http://x", Workers: 0, Timeout: time.Second},
			{BaseURL: "http://x", Workers: 1},
			{BaseURL: "http://x", Workers: 1, Timeout: time.Second, Records: -1},
		} {
			_, err := Run(context.Background(), cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		}
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a consistent before and after", t, func() {
		records := []model.HealthRecord{
			{ID: 1, Steps: 1000, WaterIntake: 1, SleepHours: 7, Calories: 2000},
			{ID: 2, Steps: 3000, WaterIntake: 2, SleepHours: 8, Calories: 2400},
		}
		signups := generateSignups("run", "Club", 2)
		before := Snapshot{
			Activities: map[string]model.Activity{"Club": {Participants: []string{"a@x"}}},
		}
		after := Snapshot{
			Activities: map[string]model.Activity{"Club": {Participants: []string{"a@x", signups[1].Email, signups[0].Email}}},
			Records:    records,
			Stats:      healthstats.Compute(records),
		}
		stats := &Stats{SignupsSuccessful: 2, RecordsSuccessful: 2}

		So(verify(before, after, "Club", signups, stats), ShouldBeNil)

		Convey("When a signup was lost", func() {
			after.Activities["Club"] = model.Activity{Participants: []string{"a@x", signups[0].Email}}
			err := verify(before, after, "Club", signups, stats)
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "grew by 1, want 2")
		})

		Convey("When an existing participant disappeared", func() {
			after.Activities["Club"] = model.Activity{Participants: []string{signups[0].Email, signups[1].Email, "b@x"}}
			err := verify(before, after, "Club", signups, stats)
			So(err.Error(), ShouldContainSubstring, "lost or reordered")
		})

		Convey("When ids have a gap", func() {
			after.Records = []model.HealthRecord{records[0], {ID: 3}}
			after.Stats = healthstats.Compute(after.Records)
			err := verify(before, after, "Club", signups, stats)
			So(err.Error(), ShouldContainSubstring, "has id 3")
		})

		Convey("When stats disagree with the log", func() {
			after.Stats.TotalRecords = 5
			err := verify(before, after, "Club", signups, stats)
			So(err.Error(), ShouldContainSubstring, "stats report 5 records")
		})
	})
}

func TestGenerators(t *testing.T) {
	Convey("Given generated payloads", t, func() {
		today := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
		records := generateRecords(today, 30)
		signups := generateSignups("abcd1234", "Chess Club", 30)

		Convey("Then records should be within realistic ranges", func() {
			So(records, ShouldHaveLength, 30)
			So(records[0].Date, ShouldEqual, "2026-10-19")
			So(records[1].Date, ShouldEqual, "2026-10-18")
			for _, r := range records {
				So(r.Steps, ShouldBeBetweenOrEqual, stepsMin, stepsMin+stepsRange)
				So(r.WaterIntake, ShouldBeBetweenOrEqual, 0.5, 4.0)
				So(r.SleepHours, ShouldBeBetweenOrEqual, 4.0, 10.0)
				So(r.Calories, ShouldBeBetweenOrEqual, caloriesMin, caloriesMin+caloriesRange)
			}
		})

		Convey("Then every email should be unique to the run", func() {
			seen := make(map[string]bool)
			for _, s := range signups {
				So(s.Activity, ShouldEqual, "Chess Club")
				So(s.Email, ShouldStartWith, "loadgen-abcd1234-")
				So(seen[s.Email], ShouldBeFalse)
				seen[s.Email] = true
			}
		})
	})
}

func TestPickActivity(t *testing.T) {
	Convey("Given the seeded activities", t, func() {
		acts := model.SeedActivities()

		name, err := pickActivity("", acts)
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "Chess Club")

		name, err = pickActivity("Gym Class", acts)
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "Gym Class")

		_, err = pickActivity("", nil)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}
