package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRequiredExpertise(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"tsx path", []string{"src/component.tsx"}, []string{"TypeScript", "React"}},
		{"test file tagged", []string{"pkg/service_test.go"}, []string{"Go", "Testing"}},
		{"dedupe across paths", []string{"a.go", "b.go"}, []string{"Go"}},
		{"migration tagged database", []string{"migrations/0001_init.sql"}, []string{"SQL", "Database"}},
		{"auth path tagged security", []string{"internal/auth/middleware.py"}, []string{"Python", "Security"}},
		{"unknown extension yields nothing", []string{"assets/logo.png"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveRequiredExpertise(tt.paths))
		})
	}
}

// Scenario from the team model docs: A (React/TypeScript, workload 75,
// available) must be suggested for a .tsx change authored by B.
func TestAssignReviewersExpertiseWins(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{
		ID:       "member-a",
		Skills:   []string{"React", "TypeScript"},
		Workload: 75,
	})
	addMember(t, svc, domain.TeamMember{
		ID:       "member-b",
		Skills:   []string{"JavaScript"},
		Workload: 60,
	})

	assignment, err := svc.AssignReviewers(context.Background(), "change-1", "member-b",
		[]string{"src/component.tsx"}, "high")
	require.NoError(t, err)

	require.NotEmpty(t, assignment.Suggestions)
	top := assignment.Suggestions[0]
	assert.Equal(t, "member-a", top.MemberID)
	assert.Greater(t, top.Confidence, 0.3)
	assert.Equal(t, 1.0, top.ExpertiseMatch)

	for _, s := range assignment.Suggestions {
		assert.NotEqual(t, "member-b", s.MemberID, "author must never review their own change")
	}
}

func TestAssignReviewersCapAndOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	for i := 0; i < 6; i++ {
		addMember(t, svc, domain.TeamMember{
			ID:       fmt.Sprintf("member-%d", i),
			Skills:   []string{"Go"},
			Workload: i * 15,
		})
	}

	assignment, err := svc.AssignReviewers(context.Background(), "change-1", "author",
		[]string{"main.go"}, "")
	require.NoError(t, err)

	require.Len(t, assignment.Suggestions, 3)
	for i := 1; i < len(assignment.Suggestions); i++ {
		assert.GreaterOrEqual(t,
			assignment.Suggestions[i-1].Confidence,
			assignment.Suggestions[i].Confidence,
			"suggestions must be sorted by non-increasing confidence")
	}
}

func TestAssignReviewersThresholdFiltersWeakCandidates(t *testing.T) {
	svc, _, _ := newTestService(t)
	// No expertise match, offline, fully loaded: confidence 0.
	addMember(t, svc, domain.TeamMember{
		ID:           "overloaded",
		Skills:       []string{"COBOL"},
		Workload:     100,
		Availability: domain.Availability{Status: domain.StatusOffline},
	})

	assignment, err := svc.AssignReviewers(context.Background(), "change-1", "author",
		[]string{"main.go"}, "")
	require.NoError(t, err)
	assert.Empty(t, assignment.Suggestions, "empty candidate list is a valid outcome")
}

func TestEstimatedReviewMinutes(t *testing.T) {
	svc, _, _ := newTestService(t)

	one, err := svc.AssignReviewers(context.Background(), "c1", "author", []string{"a.go"}, "")
	require.NoError(t, err)
	assert.Equal(t, 15, one.EstimatedMinutes, "floor reserves minimum reviewer attention")

	ten, err := svc.AssignReviewers(context.Background(), "c2", "author", paths(10), "")
	require.NoError(t, err)
	assert.Equal(t, 50, ten.EstimatedMinutes)
}

func TestAssignReviewersPersistsAndPublishes(t *testing.T) {
	svc, store, bus := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "member-a", Skills: []string{"Go"}})

	var published int
	bus.Subscribe(events.ReviewAssigned, func(events.Event) { published++ })

	assignment, err := svc.AssignReviewers(context.Background(), "change-1", "author",
		[]string{"main.go"}, "")
	require.NoError(t, err)

	stored, err := svc.GetReviewAssignment(context.Background(), assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, stored.ID)
	assert.Contains(t, store.assignments, assignment.ID)
	assert.Equal(t, 1, published)
}
