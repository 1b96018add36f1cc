// Package metrics runs the periodic team metrics sampler. The feed is
// observability-only: nothing in the scoring or ranking paths reads it.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/scoring"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/team"
	"go.uber.org/zap"
)

const (
	DefaultInterval  = 5 * time.Minute
	DefaultRetention = 24 * time.Hour
)

// Source produces one metrics snapshot per tick. Collaborators plug in real
// productivity and communication inputs here; the engine does not synthesize
// them.
type Source interface {
	Sample(now time.Time) domain.TeamMetrics
}

// TeamSource derives workload and availability aggregates from team model
// snapshots and leaves productivity and communication inputs at zero for a
// collaborator-provided Source to fill.
type TeamSource struct {
	model *team.Model
}

func NewTeamSource(model *team.Model) *TeamSource {
	return &TeamSource{model: model}
}

func (s *TeamSource) Sample(now time.Time) domain.TeamMetrics {
	members := s.model.All()

	m := domain.TeamMetrics{
		Timestamp:   now,
		MemberCount: len(members),
	}
	if len(members) == 0 {
		return m
	}

	var workload, availability float64
	for _, member := range members {
		workload += float64(member.Workload)
		availability += scoring.AvailabilityScore(member)
		if member.Availability.Status == domain.StatusAvailable {
			m.AvailableNow++
		}
	}
	m.Workload = workload / float64(len(members))
	m.Collaboration = availability / float64(len(members))

	return m
}

// Sampler appends one snapshot per interval and prunes entries older than
// the retention window on every tick. Pruning is idempotent and safe to run
// concurrently with history reads.
type Sampler struct {
	source    Source
	bus       *events.Bus
	logger    *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	history []domain.TeamMetrics
}

func NewSampler(source Source, bus *events.Bus, logger *zap.Logger, interval, retention time.Duration) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sampler{
		source:    source,
		bus:       bus,
		logger:    logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run samples on the configured interval until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("metrics sampler started",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("metrics sampler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick takes one sample, prunes expired history and publishes the snapshot.
func (s *Sampler) Tick() domain.TeamMetrics {
	now := s.now().UTC()
	snapshot := s.source.Sample(now)
	cutoff := now.Add(-s.retention)

	s.mu.Lock()
	s.history = append(s.history, snapshot)
	kept := s.history[:0]
	for _, m := range s.history {
		if m.Timestamp.After(cutoff) {
			kept = append(kept, m)
		}
	}
	s.history = kept
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(events.MetricsSampled, snapshot)
	}

	return snapshot
}

// History returns a copy of the retained snapshots, oldest first.
func (s *Sampler) History() []domain.TeamMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TeamMetrics(nil), s.history...)
}
