package model

import "time"

// HealthRecordInput carries the caller-supplied metrics for one day.
type HealthRecordInput struct {
	Date        string
	Steps       int
	WaterIntake float64 // liters
	SleepHours  float64
	Calories    int
}

// HealthRecord is one logged day of health metrics.
type HealthRecord struct {
	ID          int       `json:"id"`
	Date        string    `json:"date"`
	Steps       int       `json:"steps"`
	WaterIntake float64   `json:"water_intake"`
	SleepHours  float64   `json:"sleep_hours"`
	Calories    int       `json:"calories"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthStats summarises the health log.
type HealthStats struct {
	TotalRecords   int     `json:"total_records"`
	AvgSteps       float64 `json:"avg_steps"`
	AvgWaterIntake float64 `json:"avg_water_intake"`
	AvgSleepHours  float64 `json:"avg_sleep_hours"`
	AvgCalories    float64 `json:"avg_calories"`
}
