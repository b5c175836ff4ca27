// Package healthstats computes summary statistics over health records.
package healthstats

import (
	"math"

	"github.com/okian/mergington/internal/domain/model"
)

// precision is the number of decimal places averages are rounded to.
const precision = 2

// Compute returns the record count and the mean of every metric, each
// rounded to two decimal places. An empty log yields the zero summary.
func Compute(records []model.HealthRecord) model.HealthStats {
	if len(records) == 0 {
		return model.HealthStats{}
	}

	var steps, water, sleep, calories float64
	for _, r := range records {
		steps += float64(r.Steps)
		water += r.WaterIntake
		sleep += r.SleepHours
		calories += float64(r.Calories)
	}

	n := float64(len(records))
	return model.HealthStats{
		TotalRecords:   len(records),
		AvgSteps:       Round(steps/n, precision),
		AvgWaterIntake: Round(water/n, precision),
		AvgSleepHours:  Round(sleep/n, precision),
		AvgCalories:    Round(calories/n, precision),
	}
}

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(x*scale) / scale
}
