package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/scoring"
	"go.uber.org/zap"
)

const (
	taskConfidenceThreshold = 0.4
	// minSkillMatchDivisor keeps the completion estimate finite: a low skill
	// match inflates the estimate instead of dividing by zero.
	minSkillMatchDivisor = 0.1
	// workloadUnitsPerHour converts effort hours to workload units for the
	// projected post-assignment workload. Display and ranking input only,
	// never enforced as a cap.
	workloadUnitsPerHour = 10
)

// TaskRequest describes a task to be coordinated.
type TaskRequest struct {
	Task           string
	RequiredSkills []string
	EffortHours    float64
	Priority       string
	Deadline       *time.Time
	Dependencies   []string
}

// CoordinateTask ranks assignee candidates for the task and predicts their
// completion times. An empty suggestion list is a valid outcome, not an
// error.
func (s *Service) CoordinateTask(ctx context.Context, req TaskRequest) (domain.TeamCoordination, error) {
	now := s.now().UTC()

	var suggestions []domain.AssignmentSuggestion
	for _, member := range s.team.All() {
		skillMatch := scoring.SkillMatch(member, req.RequiredSkills)
		capacity := scoring.WorkloadScore(member)
		confidence := 0.7*skillMatch + 0.3*capacity
		if confidence <= taskConfidenceThreshold {
			continue
		}

		divisor := skillMatch
		if divisor < minSkillMatchDivisor {
			divisor = minSkillMatchDivisor
		}
		estimatedHours := req.EffortHours / divisor

		suggestions = append(suggestions, domain.AssignmentSuggestion{
			MemberID:            member.ID,
			Confidence:          confidence,
			SkillMatch:          skillMatch,
			Availability:        scoring.AvailabilityScore(member),
			ProjectedWorkload:   member.Workload + int(req.EffortHours*workloadUnitsPerHour),
			EstimatedCompletion: now.Add(time.Duration(estimatedHours * float64(time.Hour))),
		})
	}

	suggestions = sortByConfidence(suggestions,
		func(a domain.AssignmentSuggestion) float64 { return a.Confidence },
		func(a domain.AssignmentSuggestion) string { return a.MemberID })

	coordination := domain.TeamCoordination{
		ID:             s.newID(),
		Task:           req.Task,
		RequiredSkills: append([]string(nil), req.RequiredSkills...),
		EffortHours:    req.EffortHours,
		Priority:       req.Priority,
		Deadline:       req.Deadline,
		Suggestions:    suggestions,
		Dependencies:   append([]string(nil), req.Dependencies...),
		Status:         domain.CoordinationPlanning,
		CreatedAt:      now,
	}

	if err := s.store.SaveCoordination(ctx, coordination); err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("save coordination: %w", err)
	}

	s.logger.Info("task coordinated",
		zap.String("coordination_id", coordination.ID),
		zap.Int("candidates", len(suggestions)),
		zap.Float64("effort_hours", req.EffortHours))
	s.publish(events.TaskCoordinated, coordination)

	return coordination, nil
}

// TransitionCoordination moves a task forward through
// planning → assigned → in_progress → completed. Backward moves are
// rejected.
func (s *Service) TransitionCoordination(ctx context.Context, id string, next domain.CoordinationStatus) (domain.TeamCoordination, error) {
	coordination, err := s.store.GetCoordination(ctx, id)
	if err != nil {
		return domain.TeamCoordination{}, err
	}

	if coordinationOrder(next) != coordinationOrder(coordination.Status)+1 {
		return domain.TeamCoordination{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, coordination.Status, next)
	}

	coordination.Status = next
	if err := s.store.UpdateCoordination(ctx, coordination); err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("update coordination: %w", err)
	}

	s.logger.Info("coordination transitioned",
		zap.String("coordination_id", id),
		zap.String("status", string(next)))

	return coordination, nil
}

func (s *Service) GetCoordination(ctx context.Context, id string) (domain.TeamCoordination, error) {
	return s.store.GetCoordination(ctx, id)
}

func coordinationOrder(status domain.CoordinationStatus) int {
	switch status {
	case domain.CoordinationPlanning:
		return 0
	case domain.CoordinationAssigned:
		return 1
	case domain.CoordinationInProgress:
		return 2
	case domain.CoordinationCompleted:
		return 3
	default:
		return -1
	}
}
