package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store for service tests. failSave simulates a
// persistence failure on every write.
type fakeStore struct {
	conflicts     map[string]domain.ConflictResolution
	assignments   map[string]domain.CodeReviewAssignment
	coordinations map[string]domain.TeamCoordination
	transfers     []domain.KnowledgeTransfer
	failSave      bool
}

var errStoreDown = errors.New("store down")

func newFakeStore() *fakeStore {
	return &fakeStore{
		conflicts:     make(map[string]domain.ConflictResolution),
		assignments:   make(map[string]domain.CodeReviewAssignment),
		coordinations: make(map[string]domain.TeamCoordination),
	}
}

func (f *fakeStore) SaveConflict(_ context.Context, c domain.ConflictResolution) error {
	if f.failSave {
		return errStoreDown
	}
	f.conflicts[c.ID] = c
	return nil
}

func (f *fakeStore) GetConflict(_ context.Context, id string) (domain.ConflictResolution, error) {
	c, ok := f.conflicts[id]
	if !ok {
		return domain.ConflictResolution{}, ErrConflictNotFound
	}
	return c, nil
}

func (f *fakeStore) UpdateConflict(_ context.Context, c domain.ConflictResolution) error {
	if f.failSave {
		return errStoreDown
	}
	f.conflicts[c.ID] = c
	return nil
}

func (f *fakeStore) ListConflicts(_ context.Context) ([]domain.ConflictResolution, error) {
	var out []domain.ConflictResolution
	for _, c := range f.conflicts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) SaveReviewAssignment(_ context.Context, a domain.CodeReviewAssignment) error {
	if f.failSave {
		return errStoreDown
	}
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeStore) GetReviewAssignment(_ context.Context, id string) (domain.CodeReviewAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return domain.CodeReviewAssignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeStore) SaveCoordination(_ context.Context, c domain.TeamCoordination) error {
	if f.failSave {
		return errStoreDown
	}
	f.coordinations[c.ID] = c
	return nil
}

func (f *fakeStore) GetCoordination(_ context.Context, id string) (domain.TeamCoordination, error) {
	c, ok := f.coordinations[id]
	if !ok {
		return domain.TeamCoordination{}, ErrCoordinationNotFound
	}
	return c, nil
}

func (f *fakeStore) UpdateCoordination(_ context.Context, c domain.TeamCoordination) error {
	if f.failSave {
		return errStoreDown
	}
	f.coordinations[c.ID] = c
	return nil
}

func (f *fakeStore) SaveTransfer(_ context.Context, t domain.KnowledgeTransfer) error {
	if f.failSave {
		return errStoreDown
	}
	f.transfers = append(f.transfers, t)
	return nil
}

func (f *fakeStore) ListTransfers(_ context.Context) ([]domain.KnowledgeTransfer, error) {
	return append([]domain.KnowledgeTransfer(nil), f.transfers...), nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *events.Bus) {
	t.Helper()

	store := newFakeStore()
	bus := events.NewBus()
	svc := New(team.NewModel(), store, bus, zap.NewNop())

	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return svc, store, bus
}

func addMember(t *testing.T, svc *Service, member domain.TeamMember) {
	t.Helper()
	if member.Role == "" {
		member.Role = domain.RoleSenior
	}
	if member.Availability.Status == "" {
		member.Availability.Status = domain.StatusAvailable
	}
	require.NoError(t, svc.AddMember(context.Background(), member))
}

func TestAddMemberValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.AddMember(context.Background(), domain.TeamMember{ID: "", Role: domain.RoleJunior})
	assert.ErrorIs(t, err, ErrInvalidMember)

	err = svc.AddMember(context.Background(), domain.TeamMember{ID: "m1", Role: "intern"})
	assert.ErrorIs(t, err, ErrInvalidMember)
}

func TestWorkloadStaysInDomainWhenReadBack(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "m1", Workload: 50})

	member, err := svc.SetMemberWorkload(context.Background(), "m1", 250)
	require.NoError(t, err)
	assert.Equal(t, 100, member.Workload)

	member, err = svc.GetMember(context.Background(), "m1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, member.Workload, 0)
	assert.LessOrEqual(t, member.Workload, 100)
}

func TestMemberNotFoundMapped(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetMember(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.SetMemberAvailability(context.Background(), "ghost", domain.StatusBusy)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
