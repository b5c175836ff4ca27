package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/metrics"
)

// ActivityStore is an in-memory Activities implementation guarded by a
// single RWMutex. Rosters only ever grow.
type ActivityStore struct {
	mu              sync.RWMutex
	activities      map[string]model.Activity
	seed            map[string]model.Activity
	enforceCapacity bool
}

var _ Activities = (*ActivityStore)(nil)

// NewActivityStore creates a store populated with the seed activities.
func NewActivityStore(opts ...ActivityOption) *ActivityStore {
	s := &ActivityStore{}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == nil {
		s.seed = model.SeedActivities()
	}

	s.activities = make(map[string]model.Activity, len(s.seed))
	for name, a := range s.seed {
		if name == "" {
			continue
		}
		s.activities[name] = a.Clone()
		metrics.UpdateParticipants(name, len(a.Participants))
	}
	s.seed = nil
	metrics.UpdateActivities(len(s.activities))

	return s
}

// List returns a deep copy of every activity keyed by name.
func (s *ActivityStore) List(_ context.Context) map[string]model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.Activity, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.Clone()
	}
	return out
}

// Signup appends email to the named roster. Duplicate emails are accepted
// and capacity is only checked when enforcement is enabled.
func (s *ActivityStore) Signup(_ context.Context, name, email string) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		metrics.RecordSignupRejected("not_found")
		return model.Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}
	if s.enforceCapacity && a.Full() {
		metrics.RecordSignupRejected("full")
		return model.Activity{}, fmt.Errorf("%w: %q has %d/%d participants",
			ErrActivityFull, name, len(a.Participants), a.MaxParticipants)
	}

	a.Participants = append(a.Participants, email)
	s.activities[name] = a

	metrics.RecordSignup(name)
	metrics.UpdateParticipants(name, len(a.Participants))

	return a.Clone(), nil
}

// Count returns the number of activities.
func (s *ActivityStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}
