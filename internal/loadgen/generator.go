package loadgen

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// Value ranges for generated health records.
const (
	stepsMin      = 1000
	stepsRange    = 19000
	waterMinL     = 0.5
	waterRangeL   = 3.5
	sleepMinHrs   = 4.0
	sleepRangeHrs = 6.0
	caloriesMin   = 1200
	caloriesRange = 2300

	randomFloatDivisor = 1000000
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// randomFloat returns a float64 in [0, 1).
func randomFloat() float64 {
	return float64(randomInt(randomFloatDivisor)) / randomFloatDivisor
}

func roundTo(x, step float64) float64 {
	return math.Round(x/step) * step
}

// generateSignups creates n signups with emails unique to runID.
func generateSignups(runID, activity string, n int) []Signup {
	out := make([]Signup, n)
	for i := range out {
		out[i] = Signup{
			Activity: activity,
			Email:    fmt.Sprintf("loadgen-%s-%d@mergington.edu", runID, i),
		}
	}
	return out
}

// generateRecords creates n plausible daily records ending at today.
func generateRecords(today time.Time, n int) []model.HealthRecordInput {
	out := make([]model.HealthRecordInput, n)
	for i := range out {
		out[i] = model.HealthRecordInput{
			Date:        today.AddDate(0, 0, -i).Format(time.DateOnly),
			Steps:       stepsMin + randomInt(stepsRange),
			WaterIntake: roundTo(waterMinL+randomFloat()*waterRangeL, 0.1),
			SleepHours:  roundTo(sleepMinHrs+randomFloat()*sleepRangeHrs, 0.25),
			Calories:    caloriesMin + randomInt(caloriesRange),
		}
	}
	return out
}
