package service

import (
	"context"
	"fmt"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/scoring"
	"go.uber.org/zap"
)

type resolutionTemplate struct {
	approach     string
	steps        []string
	minutes      int
	alternatives []string
}

var resolutionTemplates = map[domain.ConflictType]resolutionTemplate{
	domain.ConflictMerge: {
		approach: "Rebase the feature branch and resolve overlapping hunks file by file",
		steps: []string{
			"Fetch the latest target branch",
			"Rebase the feature branch onto it",
			"Resolve each conflicting file with both authors present",
			"Run the full test suite before pushing",
		},
		minutes:      60,
		alternatives: []string{"Cherry-pick the non-conflicting commits", "Split the change into smaller pull requests"},
	},
	domain.ConflictDesign: {
		approach: "Hold a design review with the involved members and a mediator",
		steps: []string{
			"Collect the competing proposals in writing",
			"List the constraints each proposal satisfies",
			"Walk through trade-offs in a timeboxed session",
			"Record the decision and its rationale",
		},
		minutes:      120,
		alternatives: []string{"Prototype both options behind a flag", "Defer to the documented architecture guidelines"},
	},
	domain.ConflictPriority: {
		approach: "Re-rank the competing work items against the current sprint goal",
		steps: []string{
			"Restate the sprint goal",
			"Score each item on impact and urgency",
			"Agree on a single ordering",
		},
		minutes:      45,
		alternatives: []string{"Escalate the ordering to the product owner"},
	},
	domain.ConflictTechnical: {
		approach: "Reproduce the disagreement with a minimal example and decide on evidence",
		steps: []string{
			"Write down the competing claims",
			"Build a minimal benchmark or test that discriminates between them",
			"Adopt the approach the evidence supports",
		},
		minutes:      90,
		alternatives: []string{"Time-box a spike for each approach", "Consult the relevant domain expert"},
	},
}

// DetectConflict classifies and scores a detected conflict. Payloads whose
// severity resolves below medium are discarded without creating a record, so
// low-severity noise never reaches the audit trail; callers see
// ErrConflictDiscarded for that outcome.
func (s *Service) DetectConflict(ctx context.Context, involved []string, data domain.ConflictData) (domain.ConflictResolution, error) {
	return s.createConflict(ctx, classifyConflict(data), involved, data)
}

// ReportPriorityConflict records an explicitly raised priority conflict.
// Priority conflicts are never inferred from payload shape.
func (s *Service) ReportPriorityConflict(ctx context.Context, involved []string, data domain.ConflictData) (domain.ConflictResolution, error) {
	return s.createConflict(ctx, domain.ConflictPriority, involved, data)
}

func (s *Service) createConflict(ctx context.Context, ctype domain.ConflictType, involved []string, data domain.ConflictData) (domain.ConflictResolution, error) {
	severity, ok := scoreSeverity(data)
	if !ok {
		s.logger.Debug("conflict discarded", zap.Strings("involved", involved))
		return domain.ConflictResolution{}, ErrConflictDiscarded
	}

	suggestion := s.buildSuggestion(ctype, involved)

	conflict := domain.ConflictResolution{
		ID:              s.newID(),
		Type:            ctype,
		Severity:        severity,
		InvolvedMembers: append([]string(nil), involved...),
		Data:            data,
		Suggestion:      suggestion,
		Status:          domain.ConflictPending,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.store.SaveConflict(ctx, conflict); err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("save conflict: %w", err)
	}

	s.logger.Info("conflict recorded",
		zap.String("conflict_id", conflict.ID),
		zap.String("type", string(conflict.Type)),
		zap.String("severity", string(conflict.Severity)),
		zap.Bool("mediator_assigned", conflict.Suggestion.Mediator != nil))
	s.publish(events.ConflictCreated, conflict)

	return conflict, nil
}

// classifyConflict infers the conflict type from which optional payload
// fields are populated.
func classifyConflict(data domain.ConflictData) domain.ConflictType {
	switch {
	case len(data.Files) > 0 || len(data.Branches) > 0:
		return domain.ConflictMerge
	case len(data.Discussions) > 0:
		return domain.ConflictDesign
	default:
		return domain.ConflictTechnical
	}
}

// scoreSeverity applies the step function over payload size. Missing fields
// simply contribute nothing; a zero total means the conflict is discarded.
func scoreSeverity(data domain.ConflictData) (domain.ConflictSeverity, bool) {
	score := 0
	if len(data.Files) >= 5 {
		score += 2
	}
	if len(data.Branches) >= 2 {
		score += 3
	}
	if len(data.PullRequests) >= 1 {
		score += 1
	}

	switch {
	case score >= 5:
		return domain.SeverityCritical, true
	case score >= 3:
		return domain.SeverityHigh, true
	case score >= 1:
		return domain.SeverityMedium, true
	default:
		return domain.SeverityLow, false
	}
}

// buildSuggestion fills the per-type template and attaches the best
// available mediator. With no eligible mediator the suggestion keeps
// RequiresMediator set and the caller is expected to escalate.
func (s *Service) buildSuggestion(ctype domain.ConflictType, involved []string) domain.ResolutionSuggestion {
	tpl := resolutionTemplates[ctype]
	suggestion := domain.ResolutionSuggestion{
		Approach:         tpl.approach,
		Steps:            append([]string(nil), tpl.steps...),
		EstimatedMinutes: tpl.minutes,
		Confidence:       0.7,
		Alternatives:     append([]string(nil), tpl.alternatives...),
		RequiresMediator: true,
	}

	if mediator, ok := s.pickMediator(involved); ok {
		id := mediator.ID
		suggestion.Mediator = &id
		suggestion.Confidence = 0.8
	}

	return suggestion
}

// pickMediator selects the highest-ranking available lead or senior member
// who is not involved in the conflict, preferring spare capacity on ties.
func (s *Service) pickMediator(involved []string) (domain.TeamMember, bool) {
	involvedSet := make(map[string]struct{}, len(involved))
	for _, id := range involved {
		involvedSet[id] = struct{}{}
	}

	var best domain.TeamMember
	found := false
	for _, member := range s.team.All() {
		if member.Role != domain.RoleLead && member.Role != domain.RoleSenior {
			continue
		}
		if scoring.AvailabilityScore(member) < 1.0 {
			continue
		}
		if _, isInvolved := involvedSet[member.ID]; isInvolved {
			continue
		}
		if !found ||
			member.Role.Rank() > best.Role.Rank() ||
			(member.Role.Rank() == best.Role.Rank() && member.Workload < best.Workload) {
			best = member
			found = true
		}
	}

	return best, found
}

// TransitionConflict advances the conflict state machine:
// pending → in_progress → resolved, with escalated reachable from any
// non-terminal state.
func (s *Service) TransitionConflict(ctx context.Context, id string, next domain.ConflictStatus) (domain.ConflictResolution, error) {
	conflict, err := s.store.GetConflict(ctx, id)
	if err != nil {
		return domain.ConflictResolution{}, err
	}

	if !transitionAllowed(conflict.Status, next) {
		return domain.ConflictResolution{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, conflict.Status, next)
	}

	conflict.Status = next
	if next == domain.ConflictResolved {
		now := s.now().UTC()
		conflict.ResolvedAt = &now
	}

	if err := s.store.UpdateConflict(ctx, conflict); err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("update conflict: %w", err)
	}

	s.logger.Info("conflict transitioned",
		zap.String("conflict_id", conflict.ID),
		zap.String("status", string(next)))

	switch next {
	case domain.ConflictResolved:
		s.publish(events.ConflictResolved, conflict)
	case domain.ConflictEscalated:
		s.publish(events.ConflictEscalated, conflict)
	default:
		s.publish(events.ConflictUpdated, conflict)
	}

	return conflict, nil
}

func transitionAllowed(from, to domain.ConflictStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == domain.ConflictEscalated {
		return true
	}
	switch from {
	case domain.ConflictPending:
		return to == domain.ConflictInProgress
	case domain.ConflictInProgress:
		return to == domain.ConflictResolved
	default:
		return false
	}
}

func (s *Service) GetConflict(ctx context.Context, id string) (domain.ConflictResolution, error) {
	return s.store.GetConflict(ctx, id)
}

func (s *Service) ListConflicts(ctx context.Context) ([]domain.ConflictResolution, error) {
	return s.store.ListConflicts(ctx)
}
