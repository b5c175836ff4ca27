// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
	"github.com/okian/mergington/pkg/metrics"
)

// Service owns the activity and health stores for the lifetime of the
// process and exposes them to the HTTP layer.
type Service struct {
	mu sync.RWMutex

	// Core components
	activities repository.Activities
	healthLog  repository.HealthLog

	// Configuration
	enforceCapacity bool
	clock           func() time.Time

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCapacityEnforcement rejects signups to full activities.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithActivities injects an activity store instead of the seeded default.
func WithActivities(store repository.Activities) Option {
	return func(s *Service) {
		if store != nil {
			s.activities = store
		}
	}
}

// WithHealthLog injects a health log instead of an empty default.
func WithHealthLog(store repository.HealthLog) Option {
	return func(s *Service) {
		if store != nil {
			s.healthLog = store
		}
	}
}

// New constructs a new Service. Stores are created here so a Service is
// usable before Start.
func New(opts ...Option) *Service {
	s := &Service{
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.activities == nil {
		s.activities = repository.NewActivityStore(
			repository.WithCapacityEnforcement(s.enforceCapacity),
		)
	}
	if s.healthLog == nil {
		s.healthLog = repository.NewHealthLogStore(repository.WithClock(s.clock))
	}

	return s
}

// Start marks the service as running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.started = true
	s.startedAt = s.clock()
	s.logger.Info(ctx, "records service started",
		logger.Int("activities", s.activities.Count(ctx)),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop marks the service as stopped. In-memory state is kept until the
// process exits.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "records service stopped",
		logger.Int("healthRecords", s.healthLog.Count(context.Background())),
	)
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) map[string]model.Activity {
	return s.activities.List(ctx)
}

// Signup adds email to the named activity's roster.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	_, err := s.activities.Signup(ctx, activity, email)
	if err != nil {
		if !errors.Is(err, repository.ErrActivityNotFound) && !errors.Is(err, repository.ErrActivityFull) {
			s.logger.Error(ctx, "signup failed", logger.String("activity", activity), logger.Error(err))
		}
		return err
	}
	s.logger.Debug(ctx, "signup recorded", logger.String("activity", activity))
	return nil
}

// ListHealthRecords returns the health log in insertion order.
func (s *Service) ListHealthRecords(ctx context.Context) []model.HealthRecord {
	return s.healthLog.List(ctx)
}

// AddHealthRecord appends a record and returns it as stored.
func (s *Service) AddHealthRecord(ctx context.Context, in model.HealthRecordInput) model.HealthRecord {
	rec := s.healthLog.Add(ctx, in)
	s.logger.Debug(ctx, "health record added", logger.Int("id", rec.ID))
	return rec
}

// HealthStats summarises the health log.
func (s *Service) HealthStats(ctx context.Context) model.HealthStats {
	return s.healthLog.Stats(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	activities := s.activities.List(ctx)
	participants := 0
	for name, a := range activities {
		participants += len(a.Participants)
		metrics.UpdateParticipants(name, len(a.Participants))
	}
	records := s.healthLog.Count(ctx)

	metrics.UpdateActivities(len(activities))
	metrics.UpdateHealthRecords(records)

	stats := map[string]any{
		"started":         s.started,
		"enforceCapacity": s.enforceCapacity,
		"activities":      len(activities),
		"participants":    participants,
		"healthRecords":   records,
	}
	if s.started {
		stats["uptimeSeconds"] = int(s.clock().Sub(s.startedAt).Seconds())
	}
	return stats
}
