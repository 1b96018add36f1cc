// Package team owns the in-memory registry of team members. All mutation is
// serialized through a single lock; reads return snapshots, so scoring code
// never observes a half-updated member and never holds a live reference.
package team

import (
	"errors"
	"sort"
	"sync"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
)

var ErrMemberNotFound = errors.New("team member not found")

type Model struct {
	mu      sync.RWMutex
	members map[string]domain.TeamMember
}

func NewModel() *Model {
	return &Model{members: make(map[string]domain.TeamMember)}
}

// Get returns a snapshot of the member with the given id.
func (m *Model) Get(id string) (domain.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	member, ok := m.members[id]
	if !ok {
		return domain.TeamMember{}, ErrMemberNotFound
	}
	return cloneMember(member), nil
}

// All returns snapshots of every member, ordered by id for stable ranking.
func (m *Model) All() []domain.TeamMember {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]domain.TeamMember, 0, len(m.members))
	for _, member := range m.members {
		members = append(members, cloneMember(member))
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	return members
}

// Upsert inserts or replaces a member. Workload is clamped to [0,100].
func (m *Model) Upsert(member domain.TeamMember) {
	m.mu.Lock()
	defer m.mu.Unlock()

	member.Workload = clampWorkload(member.Workload)
	m.members[member.ID] = cloneMember(member)
}

func (m *Model) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.members[id]; !ok {
		return ErrMemberNotFound
	}
	delete(m.members, id)
	return nil
}

// Update applies mutate to the stored member under the write lock. The
// mutator receives a copy; the result is clamped and stored back, so a
// panic-free mutator can never leave the member half-updated.
func (m *Model) Update(id string, mutate func(*domain.TeamMember)) (domain.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.members[id]
	if !ok {
		return domain.TeamMember{}, ErrMemberNotFound
	}

	updated := cloneMember(member)
	mutate(&updated)
	updated.ID = member.ID
	updated.Workload = clampWorkload(updated.Workload)
	m.members[id] = updated

	return cloneMember(updated), nil
}

func (m *Model) SetWorkload(id string, workload int) (domain.TeamMember, error) {
	return m.Update(id, func(member *domain.TeamMember) {
		member.Workload = workload
	})
}

// AdjustWorkload shifts workload by delta, clamped to [0,100].
func (m *Model) AdjustWorkload(id string, delta int) (domain.TeamMember, error) {
	return m.Update(id, func(member *domain.TeamMember) {
		member.Workload += delta
	})
}

func (m *Model) SetAvailability(id string, status domain.AvailabilityStatus) (domain.TeamMember, error) {
	return m.Update(id, func(member *domain.TeamMember) {
		member.Availability.Status = status
	})
}

func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.members)
}

func clampWorkload(w int) int {
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}

func cloneMember(member domain.TeamMember) domain.TeamMember {
	clone := member
	clone.Skills = append([]string(nil), member.Skills...)
	clone.Expertise = append([]domain.Expertise(nil), member.Expertise...)
	return clone
}
