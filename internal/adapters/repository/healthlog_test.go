package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHealthLogStore(t *testing.T) {
	Convey("Given an empty health log with a fixed clock", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)
		store := NewHealthLogStore(WithClock(func() time.Time { return fixed }))

		Convey("When nothing has been logged", func() {
			Convey("Then the list should be empty and stats zero", func() {
				So(store.List(ctx), ShouldBeEmpty)
				So(store.Count(ctx), ShouldEqual, 0)
				So(store.Stats(ctx), ShouldResemble, model.HealthStats{})
			})
		})

		Convey("When two records are added", func() {
			r1 := store.Add(ctx, model.HealthRecordInput{Date: "2026-10-18", Steps: 1000, WaterIntake: 2, SleepHours: 7, Calories: 1800})
			r2 := store.Add(ctx, model.HealthRecordInput{Date: "2026-10-19", Steps: 2000, WaterIntake: 3, SleepHours: 8, Calories: 2200})

			Convey("Then ids should be 1 then 2 with the server timestamp", func() {
				So(r1.ID, ShouldEqual, 1)
				So(r2.ID, ShouldEqual, 2)
				So(r1.Timestamp.Equal(fixed), ShouldBeTrue)
				So(r2.Date, ShouldEqual, "2026-10-19")
			})

			Convey("And listing should return them in insertion order unchanged", func() {
				So(store.List(ctx), ShouldResemble, []model.HealthRecord{r1, r2})
			})

			Convey("And stats should average them", func() {
				stats := store.Stats(ctx)
				So(stats.TotalRecords, ShouldEqual, 2)
				So(stats.AvgSteps, ShouldEqual, 1500.0)
				So(stats.AvgWaterIntake, ShouldEqual, 2.5)
				So(stats.AvgSleepHours, ShouldEqual, 7.5)
				So(stats.AvgCalories, ShouldEqual, 2000.0)
			})

			Convey("And mutating the listing should not touch the store", func() {
				list := store.List(ctx)
				list[0].Steps = 0
				So(store.List(ctx)[0].Steps, ShouldEqual, 1000)
			})
		})

		Convey("When values are out of any sensible range", func() {
			r := store.Add(ctx, model.HealthRecordInput{Date: "not a date", Steps: -5, Calories: 1_000_000})

			Convey("Then they should be stored as given", func() {
				So(r.Steps, ShouldEqual, -5)
				So(r.Calories, ShouldEqual, 1_000_000)
				So(r.Date, ShouldEqual, "not a date")
			})
		})
	})
}

func TestHealthLogStore_ConcurrentAdds(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		store := NewHealthLogStore()
		const workers, perWorker = 16, 100

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					store.Add(ctx, model.HealthRecordInput{Steps: 10})
					_ = store.Stats(ctx)
				}
			}()
		}
		wg.Wait()

		Convey("Then ids should be exactly 1..N in order with no duplicates", func() {
			records := store.List(ctx)
			So(records, ShouldHaveLength, workers*perWorker)
			for i, r := range records {
				So(r.ID, ShouldEqual, i+1)
			}
			So(store.Stats(ctx).AvgSteps, ShouldEqual, 10.0)
		})
	})
}
