// Package repository holds the process-local stores for activity rosters
// and the health log.
package repository

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
)

// Activities provides read/write access to activity rosters.
type Activities interface {
	// List returns every activity keyed by name. The result is a copy.
	List(ctx context.Context) map[string]model.Activity

	// Signup appends email to the activity's roster and returns the
	// updated activity. Returns ErrActivityNotFound if the name is unknown.
	Signup(ctx context.Context, name, email string) (model.Activity, error)

	// Count returns the number of activities.
	Count(ctx context.Context) int
}

// HealthLog provides append-only access to health records.
type HealthLog interface {
	// List returns all records in insertion order. The result is a copy.
	List(ctx context.Context) []model.HealthRecord

	// Add stores a new record with the next id and a server timestamp.
	Add(ctx context.Context, in model.HealthRecordInput) model.HealthRecord

	// Stats summarises the current log.
	Stats(ctx context.Context) model.HealthStats

	// Count returns the number of records.
	Count(ctx context.Context) int
}
