package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/scoring"
	"go.uber.org/zap"
)

const (
	reviewConfidenceThreshold = 0.3
	minReviewMinutes          = 15
	minutesPerFile            = 5
)

var extensionExpertise = map[string][]string{
	".go":   {"Go"},
	".ts":   {"TypeScript"},
	".tsx":  {"TypeScript", "React"},
	".js":   {"JavaScript"},
	".jsx":  {"JavaScript", "React"},
	".py":   {"Python"},
	".rs":   {"Rust"},
	".java": {"Java"},
	".sql":  {"SQL"},
	".css":  {"CSS"},
	".scss": {"CSS"},
	".html": {"HTML"},
	".sh":   {"Shell"},
	".md":   {"Documentation"},
}

var pathExpertise = []struct {
	substr string
	tag    string
}{
	{"test", "Testing"},
	{"api", "API Design"},
	{"migration", "Database"},
	{"db", "Database"},
	{"docker", "DevOps"},
	{"deploy", "DevOps"},
	{"auth", "Security"},
	{"security", "Security"},
}

// AssignReviewers ranks every member except the author as a review candidate
// for the touched paths. The returned assignment is immutable; a change with
// new requirements gets a fresh assignment.
func (s *Service) AssignReviewers(ctx context.Context, changeID, author string, paths []string, priority string) (domain.CodeReviewAssignment, error) {
	required := deriveRequiredExpertise(paths)

	var suggestions []domain.ReviewerSuggestion
	for _, member := range s.team.All() {
		if member.ID == author {
			continue
		}

		expertise := scoring.ExpertiseMatch(member, required)
		availability := scoring.AvailabilityScore(member)
		capacity := scoring.WorkloadScore(member)
		confidence := 0.5*expertise + 0.3*availability + 0.2*capacity
		if confidence <= reviewConfidenceThreshold {
			continue
		}

		suggestions = append(suggestions, domain.ReviewerSuggestion{
			MemberID:       member.ID,
			Confidence:     confidence,
			Reasoning:      reviewReasoning(member, expertise),
			Availability:   member.Availability.Status,
			ExpertiseMatch: expertise,
			WorkloadImpact: capacity,
		})
	}

	suggestions = sortByConfidence(suggestions,
		func(r domain.ReviewerSuggestion) float64 { return r.Confidence },
		func(r domain.ReviewerSuggestion) string { return r.MemberID })

	minutes := minutesPerFile * len(paths)
	if minutes < minReviewMinutes {
		minutes = minReviewMinutes
	}

	assignment := domain.CodeReviewAssignment{
		ID:                s.newID(),
		ChangeID:          changeID,
		Author:            author,
		Suggestions:       suggestions,
		Priority:          priority,
		EstimatedMinutes:  minutes,
		RequiredExpertise: required,
		CreatedAt:         s.now().UTC(),
	}

	if err := s.store.SaveReviewAssignment(ctx, assignment); err != nil {
		return domain.CodeReviewAssignment{}, fmt.Errorf("save review assignment: %w", err)
	}

	s.logger.Info("review assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("change_id", changeID),
		zap.Int("candidates", len(suggestions)),
		zap.Strings("required_expertise", required))
	s.publish(events.ReviewAssigned, assignment)

	return assignment, nil
}

func (s *Service) GetReviewAssignment(ctx context.Context, id string) (domain.CodeReviewAssignment, error) {
	return s.store.GetReviewAssignment(ctx, id)
}

// deriveRequiredExpertise tags touched paths with language and domain
// keywords, deduplicated in first-seen order.
func deriveRequiredExpertise(paths []string) []string {
	seen := make(map[string]struct{})
	var required []string
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		required = append(required, tag)
	}

	for _, p := range paths {
		lower := strings.ToLower(p)
		for _, tag := range extensionExpertise[path.Ext(lower)] {
			add(tag)
		}
		for _, rule := range pathExpertise {
			if strings.Contains(lower, rule.substr) {
				add(rule.tag)
			}
		}
	}

	return required
}

func reviewReasoning(member domain.TeamMember, expertise float64) []string {
	var reasons []string
	switch {
	case expertise >= 0.75:
		reasons = append(reasons, "strong expertise match for the touched areas")
	case expertise >= 0.5:
		reasons = append(reasons, "partial expertise match for the touched areas")
	default:
		reasons = append(reasons, "limited expertise match, ranked on availability and capacity")
	}
	if member.Availability.Status == domain.StatusAvailable {
		reasons = append(reasons, "currently available for review")
	}
	if member.Workload <= 50 {
		reasons = append(reasons, "has spare review capacity")
	}
	if member.Preferences.Review != "" {
		reasons = append(reasons, "prefers "+member.Preferences.Review+" reviews")
	}
	return reasons
}
