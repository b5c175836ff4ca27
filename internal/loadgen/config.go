// Package loadgen drives concurrent signups and health records against a
// running records service and verifies that no write was lost.
package loadgen

import (
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Activity   string        // Activity to sign up for; empty picks the first listed
	Signups    int           // Number of signups to submit
	Records    int           // Number of health records to submit
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file for the generated payloads
	Verbose    bool          // Log progress while submitting
}

// Signup is one generated roster request.
type Signup struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// Payload is everything a run generated, as saved to OutputFile.
type Payload struct {
	RunID   string                    `json:"run_id"`
	Signups []Signup                  `json:"signups"`
	Records []model.HealthRecordInput `json:"records"`
}

// Snapshot is the observable service state at one point in a run.
type Snapshot struct {
	Activities map[string]model.Activity
	Records    []model.HealthRecord
	Stats      model.HealthStats
}

// Stats holds run statistics.
type Stats struct {
	RunID             string
	SignupsGenerated  int
	SignupsSuccessful int
	SignupsFailed     int
	RecordsGenerated  int
	RecordsSuccessful int
	RecordsFailed     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
