package service

import (
	"context"
	"testing"
	"time"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateTaskRanksBySkillAndCapacity(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "expert", Skills: []string{"Go", "SQL"}, Workload: 40})
	addMember(t, svc, domain.TeamMember{ID: "partial", Skills: []string{"Go"}, Workload: 10})
	addMember(t, svc, domain.TeamMember{ID: "unrelated", Skills: []string{"Design"}, Workload: 0})

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{
		Task:           "Build reporting pipeline",
		RequiredSkills: []string{"Go", "SQL"},
		EffortHours:    8,
	})
	require.NoError(t, err)

	require.Len(t, coordination.Suggestions, 2, "unrelated member stays below the threshold")
	assert.Equal(t, "expert", coordination.Suggestions[0].MemberID)
	assert.Equal(t, "partial", coordination.Suggestions[1].MemberID)
	assert.Equal(t, domain.CoordinationPlanning, coordination.Status)

	// expert: 0.7*1.0 + 0.3*0.6 = 0.88
	assert.InDelta(t, 0.88, coordination.Suggestions[0].Confidence, 1e-9)
	// partial: 0.7*0.5 + 0.3*0.9 = 0.62
	assert.InDelta(t, 0.62, coordination.Suggestions[1].Confidence, 1e-9)
}

func TestCoordinateTaskCompletionEstimate(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "expert", Skills: []string{"Go"}, Workload: 0})
	addMember(t, svc, domain.TeamMember{ID: "novice", Skills: []string{"Go", "Python", "Rust", "SQL"}, Workload: 0})

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{
		Task:           "Port the ingest job",
		RequiredSkills: []string{"Go"},
		EffortHours:    10,
	})
	require.NoError(t, err)
	require.Len(t, coordination.Suggestions, 2)

	// Full skill match: completion = now + 10h.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, s := range coordination.Suggestions {
		assert.Equal(t, base.Add(10*time.Hour), s.EstimatedCompletion)
	}
}

func TestCoordinateTaskLowMatchInflatesEstimate(t *testing.T) {
	svc, _, _ := newTestService(t)
	// Skill match 1/3 ≈ 0.333, capacity 1.0: confidence ≈ 0.533.
	addMember(t, svc, domain.TeamMember{ID: "partial", Skills: []string{"Go"}, Workload: 0})

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{
		Task:           "Harden the deployment",
		RequiredSkills: []string{"Go", "Terraform", "Kubernetes"},
		EffortHours:    6,
	})
	require.NoError(t, err)
	require.Len(t, coordination.Suggestions, 1)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expected := base.Add(time.Duration(float64(18) * float64(time.Hour)))
	assert.WithinDuration(t, expected, coordination.Suggestions[0].EstimatedCompletion, time.Second)
}

func TestCoordinateTaskProjectedWorkload(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "m1", Skills: []string{"Go"}, Workload: 50})

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{
		Task:           "Add tracing",
		RequiredSkills: []string{"Go"},
		EffortHours:    8,
	})
	require.NoError(t, err)
	require.Len(t, coordination.Suggestions, 1)

	// Projection is ranking input only, so it may exceed 100; the model's
	// own workload stays clamped.
	assert.Equal(t, 130, coordination.Suggestions[0].ProjectedWorkload)

	member, err := svc.GetMember(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 50, member.Workload)
}

func TestCoordinateTaskNoRequirements(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "m1", Skills: []string{"Go"}, Workload: 0})

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{
		Task:        "Triage the backlog",
		EffortHours: 2,
	})
	require.NoError(t, err)

	// Neutral 0.5 match keeps requirement-free tasks assignable:
	// 0.7*0.5 + 0.3*1.0 = 0.65.
	require.Len(t, coordination.Suggestions, 1)
	assert.InDelta(t, 0.65, coordination.Suggestions[0].Confidence, 1e-9)
}

func TestCoordinationLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{Task: "t", EffortHours: 1})
	require.NoError(t, err)

	for _, next := range []domain.CoordinationStatus{
		domain.CoordinationAssigned,
		domain.CoordinationInProgress,
		domain.CoordinationCompleted,
	} {
		coordination, err = svc.TransitionCoordination(context.Background(), coordination.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, coordination.Status)
	}

	_, err = svc.TransitionCoordination(context.Background(), coordination.ID, domain.CoordinationPlanning)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCoordinationSkipStepRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	coordination, err := svc.CoordinateTask(context.Background(), TaskRequest{Task: "t", EffortHours: 1})
	require.NoError(t, err)

	_, err = svc.TransitionCoordination(context.Background(), coordination.ID, domain.CoordinationInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
