package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/scoring"
	"go.uber.org/zap"
)

// criticalSkills is the fixed skill set the team is expected to cover, with
// a base urgency per skill.
var criticalSkills = []struct {
	name    string
	urgency float64
}{
	{"Security", 0.9},
	{"Architecture", 0.85},
	{"Testing", 0.75},
	{"DevOps", 0.7},
	{"Databases", 0.65},
}

// transferHours estimates transfer duration per skill, with a default for
// skills outside the table.
var transferHours = map[string]float64{
	"Security":     8,
	"Architecture": 12,
	"Testing":      6,
	"DevOps":       8,
	"Databases":    6,
}

const defaultTransferHours = 4

// AnalyzeKnowledgeGaps compares team skill coverage against the critical
// skill set, pairs experts with learners and records a transfer per
// addressable gap. Senior and lead members are assumed to close their own
// gaps and are skipped as learners.
func (s *Service) AnalyzeKnowledgeGaps(ctx context.Context) ([]domain.KnowledgeGap, error) {
	members := s.team.All()

	var gaps []domain.KnowledgeGap
	for _, member := range members {
		if member.Role == domain.RoleSenior || member.Role == domain.RoleLead {
			continue
		}
		for _, critical := range criticalSkills {
			if hasSkill(member, critical.name) {
				continue
			}
			gaps = append(gaps, domain.KnowledgeGap{
				MemberID: member.ID,
				Skill:    critical.name,
				Urgency:  scoring.Urgency(critical.urgency, member.Role),
			})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Urgency != gaps[j].Urgency {
			return gaps[i].Urgency > gaps[j].Urgency
		}
		if gaps[i].MemberID != gaps[j].MemberID {
			return gaps[i].MemberID < gaps[j].MemberID
		}
		return gaps[i].Skill < gaps[j].Skill
	})

	for i := range gaps {
		expert, ok := findExpert(members, gaps[i].Skill, gaps[i].MemberID)
		if !ok {
			gaps[i].Unaddressable = true
			s.logger.Warn("knowledge gap unaddressable",
				zap.String("member_id", gaps[i].MemberID),
				zap.String("skill", gaps[i].Skill))
			continue
		}

		transfer := domain.KnowledgeTransfer{
			ID:       s.newID(),
			Type:     transferTypeFor(gaps[i].Urgency),
			SourceID: expert.ID,
			TargetID: gaps[i].MemberID,
			Topic:    gaps[i].Skill,
			Approach: transferApproach(gaps[i].Skill, expert),
			Hours:    hoursFor(gaps[i].Skill),
			Priority: gaps[i].Urgency,
		}

		if err := s.store.SaveTransfer(ctx, transfer); err != nil {
			return nil, fmt.Errorf("save knowledge transfer: %w", err)
		}
		gaps[i].Transfer = &transfer

		s.logger.Info("knowledge transfer proposed",
			zap.String("transfer_id", transfer.ID),
			zap.String("skill", transfer.Topic),
			zap.String("source", transfer.SourceID),
			zap.String("target", transfer.TargetID),
			zap.String("type", string(transfer.Type)))
		s.publish(events.KnowledgeGapFound, gaps[i])
	}

	return gaps, nil
}

func (s *Service) ListTransfers(ctx context.Context) ([]domain.KnowledgeTransfer, error) {
	return s.store.ListTransfers(ctx)
}

func hasSkill(member domain.TeamMember, skill string) bool {
	want := strings.ToLower(skill)
	for _, have := range member.Skills {
		if strings.Contains(strings.ToLower(have), want) {
			return true
		}
	}
	return false
}

// findExpert returns the team's highest-expertise holder of the skill above
// beginner level, excluding the learner. Ties break on more years, then id.
func findExpert(members []domain.TeamMember, skill, learnerID string) (domain.TeamMember, bool) {
	want := strings.ToLower(skill)

	var best domain.TeamMember
	var bestExp domain.Expertise
	found := false
	for _, member := range members {
		if member.ID == learnerID {
			continue
		}
		for _, exp := range member.Expertise {
			if !strings.Contains(strings.ToLower(exp.Technology), want) {
				continue
			}
			if exp.Level.Rank() <= domain.LevelBeginner.Rank() {
				continue
			}
			if !found ||
				exp.Level.Rank() > bestExp.Level.Rank() ||
				(exp.Level.Rank() == bestExp.Level.Rank() && exp.Years > bestExp.Years) ||
				(exp.Level.Rank() == bestExp.Level.Rank() && exp.Years == bestExp.Years && member.ID < best.ID) {
				best = member
				bestExp = exp
				found = true
			}
		}
	}

	return best, found
}

func transferTypeFor(urgency float64) domain.TransferType {
	switch {
	case urgency > 0.8:
		return domain.TransferPairProgramming
	case urgency > 0.6:
		return domain.TransferMentoringSession
	case urgency > 0.4:
		return domain.TransferCodeWalkthrough
	default:
		return domain.TransferDocumentation
	}
}

func transferApproach(skill string, expert domain.TeamMember) string {
	approach := fmt.Sprintf("Work through %s fundamentals with %s on current team code", skill, expert.Name)
	if expert.Preferences.Learning != "" {
		approach += ", " + expert.Preferences.Learning + " style"
	}
	return approach
}

func hoursFor(skill string) float64 {
	if hours, ok := transferHours[skill]; ok {
		return hours
	}
	return defaultTransferHours
}
