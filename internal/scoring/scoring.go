// Package scoring holds the pure match functions shared by the conflict,
// review, task and knowledge components. All functions operate on member
// snapshots and keep their results in [0,1].
package scoring

import (
	"strings"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
)

// NeutralMatch is returned when a request carries no requirements at all.
// Using 0.5 instead of 0 keeps requirement-free requests from starving
// every candidate.
const NeutralMatch = 0.5

// ExpertiseMatch returns the fraction of required technologies present in
// the member's skill set. Matching is case-insensitive and accepts substring
// containment in either direction, so "React" matches "React Native".
func ExpertiseMatch(member domain.TeamMember, required []string) float64 {
	if len(required) == 0 {
		return NeutralMatch
	}

	matched := 0
	for _, tech := range required {
		tech = strings.ToLower(tech)
		for _, skill := range member.Skills {
			skill = strings.ToLower(skill)
			if strings.Contains(skill, tech) || strings.Contains(tech, skill) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(required))
}

// SkillMatch returns the fraction of required skills the member holds,
// matched case-insensitively against the skill list.
func SkillMatch(member domain.TeamMember, required []string) float64 {
	if len(required) == 0 {
		return NeutralMatch
	}

	matched := 0
	for _, want := range required {
		want = strings.ToLower(want)
		for _, skill := range member.Skills {
			if strings.Contains(strings.ToLower(skill), want) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(required))
}

// AvailabilityScore maps the member's availability status to a fixed score.
func AvailabilityScore(member domain.TeamMember) float64 {
	switch member.Availability.Status {
	case domain.StatusAvailable:
		return 1.0
	case domain.StatusBusy:
		return 0.3
	case domain.StatusInMeeting:
		return 0.1
	default:
		return 0.0
	}
}

// WorkloadScore rewards spare capacity: 1.0 for an idle member, 0.0 at full
// workload.
func WorkloadScore(member domain.TeamMember) float64 {
	return float64(100-member.Workload) / 100
}

// roleMultiplier encodes the policy that junior members with missing
// critical skills are the highest-priority knowledge-transfer targets.
func roleMultiplier(role domain.Role) float64 {
	switch role {
	case domain.RoleJunior:
		return 1.0
	case domain.RoleSenior:
		return 0.8
	case domain.RoleLead:
		return 0.6
	case domain.RoleArchitect:
		return 0.4
	case domain.RoleManager:
		return 0.2
	default:
		return 1.0
	}
}

// Urgency scores how pressing it is to close a gap in the given skill for a
// member of the given role.
func Urgency(baseUrgency float64, role domain.Role) float64 {
	return baseUrgency * roleMultiplier(role)
}
