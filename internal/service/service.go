// Package service implements the coordination engine: conflict resolution,
// reviewer assignment, task coordination and knowledge-gap analysis over the
// team model. Decisions are pure over member snapshots; only the injected
// store performs I/O.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/team"
	"go.uber.org/zap"
)

var (
	ErrMemberNotFound       = errors.New("team member not found")
	ErrInvalidMember        = errors.New("invalid team member")
	ErrConflictNotFound     = errors.New("conflict not found")
	ErrConflictDiscarded    = errors.New("conflict severity below threshold, not recorded")
	ErrCoordinationNotFound = errors.New("coordination not found")
	ErrAssignmentNotFound   = errors.New("review assignment not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// maxSuggestions caps every ranked suggestion list.
const maxSuggestions = 3

type Service struct {
	team   *team.Model
	store  Store
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func New(model *team.Model, store Store, bus *events.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		team:   model,
		store:  store,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) AddMember(_ context.Context, member domain.TeamMember) error {
	if member.ID == "" || !member.Role.Valid() {
		return ErrInvalidMember
	}
	s.team.Upsert(member)
	s.logger.Info("member upserted",
		zap.String("member_id", member.ID),
		zap.String("role", string(member.Role)))
	return nil
}

func (s *Service) GetMember(_ context.Context, id string) (domain.TeamMember, error) {
	member, err := s.team.Get(id)
	if errors.Is(err, team.ErrMemberNotFound) {
		return domain.TeamMember{}, ErrMemberNotFound
	}
	return member, err
}

func (s *Service) ListMembers(_ context.Context) ([]domain.TeamMember, error) {
	return s.team.All(), nil
}

func (s *Service) RemoveMember(_ context.Context, id string) error {
	if err := s.team.Remove(id); err != nil {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) SetMemberWorkload(_ context.Context, id string, workload int) (domain.TeamMember, error) {
	member, err := s.team.SetWorkload(id, workload)
	if errors.Is(err, team.ErrMemberNotFound) {
		return domain.TeamMember{}, ErrMemberNotFound
	}
	return member, err
}

func (s *Service) SetMemberAvailability(_ context.Context, id string, status domain.AvailabilityStatus) (domain.TeamMember, error) {
	member, err := s.team.SetAvailability(id, status)
	if errors.Is(err, team.ErrMemberNotFound) {
		return domain.TeamMember{}, ErrMemberNotFound
	}
	return member, err
}

func (s *Service) publish(t events.Type, payload any) {
	if s.bus != nil {
		s.bus.Publish(t, payload)
	}
}

// sortByConfidence orders candidates descending by confidence with member id
// as a stable tie-break, then truncates to the suggestion cap.
func sortByConfidence[T any](items []T, confidence func(T) float64, id func(T) string) []T {
	sort.Slice(items, func(i, j int) bool {
		if confidence(items[i]) != confidence(items[j]) {
			return confidence(items[i]) > confidence(items[j])
		}
		return id(items[i]) < id(items[j])
	})
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	return items
}
