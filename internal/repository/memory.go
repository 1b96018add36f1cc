package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
)

// Memory is the in-process Store used in tests and single-process mode.
// Conflicts are never deleted; there is deliberately no delete operation.
type Memory struct {
	mu            sync.RWMutex
	conflicts     map[string]domain.ConflictResolution
	assignments   map[string]domain.CodeReviewAssignment
	coordinations map[string]domain.TeamCoordination
	transfers     []domain.KnowledgeTransfer
}

var _ service.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		conflicts:     make(map[string]domain.ConflictResolution),
		assignments:   make(map[string]domain.CodeReviewAssignment),
		coordinations: make(map[string]domain.TeamCoordination),
	}
}

func (m *Memory) SaveConflict(_ context.Context, c domain.ConflictResolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[c.ID] = c
	return nil
}

func (m *Memory) GetConflict(_ context.Context, id string) (domain.ConflictResolution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conflicts[id]
	if !ok {
		return domain.ConflictResolution{}, service.ErrConflictNotFound
	}
	return c, nil
}

func (m *Memory) UpdateConflict(_ context.Context, c domain.ConflictResolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conflicts[c.ID]; !ok {
		return service.ErrConflictNotFound
	}
	m.conflicts[c.ID] = c
	return nil
}

func (m *Memory) ListConflicts(_ context.Context) ([]domain.ConflictResolution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conflicts := make([]domain.ConflictResolution, 0, len(m.conflicts))
	for _, c := range m.conflicts {
		conflicts = append(conflicts, c)
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].CreatedAt.Before(conflicts[j].CreatedAt)
	})
	return conflicts, nil
}

func (m *Memory) SaveReviewAssignment(_ context.Context, a domain.CodeReviewAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) GetReviewAssignment(_ context.Context, id string) (domain.CodeReviewAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return domain.CodeReviewAssignment{}, service.ErrAssignmentNotFound
	}
	return a, nil
}

func (m *Memory) SaveCoordination(_ context.Context, c domain.TeamCoordination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinations[c.ID] = c
	return nil
}

func (m *Memory) GetCoordination(_ context.Context, id string) (domain.TeamCoordination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.coordinations[id]
	if !ok {
		return domain.TeamCoordination{}, service.ErrCoordinationNotFound
	}
	return c, nil
}

func (m *Memory) UpdateCoordination(_ context.Context, c domain.TeamCoordination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coordinations[c.ID]; !ok {
		return service.ErrCoordinationNotFound
	}
	m.coordinations[c.ID] = c
	return nil
}

func (m *Memory) SaveTransfer(_ context.Context, t domain.KnowledgeTransfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, t)
	return nil
}

func (m *Memory) ListTransfers(_ context.Context) ([]domain.KnowledgeTransfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.KnowledgeTransfer(nil), m.transfers...), nil
}
