package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/mergington/internal/domain/healthstats"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/metrics"
)

// HealthLogStore is an append-only, in-memory HealthLog.
type HealthLogStore struct {
	mu      sync.RWMutex
	records []model.HealthRecord
	now     func() time.Time
}

var _ HealthLog = (*HealthLogStore)(nil)

// NewHealthLogStore creates an empty health log.
func NewHealthLogStore(opts ...HealthLogOption) *HealthLogStore {
	s := &HealthLogStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateHealthRecords(0)
	return s
}

// List returns a copy of all records in insertion order.
func (s *HealthLogStore) List(_ context.Context) []model.HealthRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.HealthRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Add assigns id = len+1 and the current timestamp under the write lock,
// so ids stay strictly increasing with concurrent writers.
func (s *HealthLogStore) Add(_ context.Context, in model.HealthRecordInput) model.HealthRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.HealthRecord{
		ID:          len(s.records) + 1,
		Date:        in.Date,
		Steps:       in.Steps,
		WaterIntake: in.WaterIntake,
		SleepHours:  in.SleepHours,
		Calories:    in.Calories,
		Timestamp:   s.now(),
	}
	s.records = append(s.records, rec)

	metrics.RecordHealthRecordAdded()
	metrics.UpdateHealthRecords(len(s.records))

	return rec
}

// Stats summarises the log under the read lock.
func (s *HealthLogStore) Stats(_ context.Context) model.HealthStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics.RecordHealthStatsQuery()
	return healthstats.Compute(s.records)
}

// Count returns the number of records.
func (s *HealthLogStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
