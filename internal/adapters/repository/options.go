package repository

import (
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// ActivityOption applies a configuration option to the ActivityStore.
type ActivityOption func(*ActivityStore)

// WithSeed replaces the default seed activities.
func WithSeed(seed map[string]model.Activity) ActivityOption {
	return func(s *ActivityStore) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// WithCapacityEnforcement makes Signup reject full activities with
// ErrActivityFull.
func WithCapacityEnforcement(enabled bool) ActivityOption {
	return func(s *ActivityStore) {
		s.enforceCapacity = enabled
	}
}

// HealthLogOption applies a configuration option to the HealthLogStore.
type HealthLogOption func(*HealthLogStore)

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) HealthLogOption {
	return func(s *HealthLogStore) {
		if now != nil {
			s.now = now
		}
	}
}
