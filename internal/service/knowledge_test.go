package service

import (
	"context"
	"testing"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allSkills() []string {
	return []string{"Security", "Architecture", "Testing", "DevOps", "Databases"}
}

func TestAnalyzeSkipsSeniorAndLeadLearners(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "senior-1", Role: domain.RoleSenior, Skills: []string{"Go"}})
	addMember(t, svc, domain.TeamMember{ID: "lead-1", Role: domain.RoleLead, Skills: []string{"Go"}})

	gaps, err := svc.AnalyzeKnowledgeGaps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestAnalyzeSortsGapsByUrgency(t *testing.T) {
	svc, _, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{ID: "junior-1", Role: domain.RoleJunior, Skills: allSkills()[2:]})
	addMember(t, svc, domain.TeamMember{ID: "manager-1", Role: domain.RoleManager, Skills: allSkills()[2:]})

	gaps, err := svc.AnalyzeKnowledgeGaps(context.Background())
	require.NoError(t, err)

	// Both members miss Security and Architecture; the junior's gaps come
	// first because of the role multiplier.
	require.Len(t, gaps, 4)
	for i := 1; i < len(gaps); i++ {
		assert.GreaterOrEqual(t, gaps[i-1].Urgency, gaps[i].Urgency)
	}
	assert.Equal(t, "junior-1", gaps[0].MemberID)
	assert.Equal(t, "Security", gaps[0].Skill)
	assert.InDelta(t, 0.9, gaps[0].Urgency, 1e-9)
}

func TestSecurityGapWithoutExpertIsUnaddressable(t *testing.T) {
	svc, store, _ := newTestService(t)
	addMember(t, svc, domain.TeamMember{
		ID:     "junior-1",
		Role:   domain.RoleJunior,
		Skills: allSkills()[1:], // everything but Security
	})
	addMember(t, svc, domain.TeamMember{
		ID:     "senior-1",
		Role:   domain.RoleSenior,
		Skills: allSkills(),
		Expertise: []domain.Expertise{
			{Technology: "Security", Level: domain.LevelBeginner, Years: 1},
		},
	})

	gaps, err := svc.AnalyzeKnowledgeGaps(context.Background())
	require.NoError(t, err)

	require.Len(t, gaps, 1)
	assert.Equal(t, "Security", gaps[0].Skill)
	assert.True(t, gaps[0].Unaddressable, "beginner-level holders cannot run a transfer")
	assert.Nil(t, gaps[0].Transfer)
	assert.Empty(t, store.transfers)
}

func TestTransferPairsExpertWithLearner(t *testing.T) {
	svc, store, bus := newTestService(t)

	var found []events.Event
	bus.Subscribe(events.KnowledgeGapFound, func(evt events.Event) { found = append(found, evt) })

	addMember(t, svc, domain.TeamMember{
		ID:     "junior-1",
		Role:   domain.RoleJunior,
		Skills: allSkills()[1:],
	})
	addMember(t, svc, domain.TeamMember{
		ID:     "advanced-1",
		Role:   domain.RoleSenior,
		Skills: allSkills(),
		Expertise: []domain.Expertise{
			{Technology: "Security", Level: domain.LevelAdvanced, Years: 3},
		},
	})
	addMember(t, svc, domain.TeamMember{
		ID:     "expert-1",
		Role:   domain.RoleSenior,
		Skills: allSkills(),
		Expertise: []domain.Expertise{
			{Technology: "Security", Level: domain.LevelExpert, Years: 6},
		},
	})

	gaps, err := svc.AnalyzeKnowledgeGaps(context.Background())
	require.NoError(t, err)

	require.Len(t, gaps, 1)
	transfer := gaps[0].Transfer
	require.NotNil(t, transfer)
	assert.Equal(t, "expert-1", transfer.SourceID, "strict expertise ranking picks the expert")
	assert.Equal(t, "junior-1", transfer.TargetID)
	assert.NotEqual(t, transfer.SourceID, transfer.TargetID)
	assert.Equal(t, "Security", transfer.Topic)
	// Security gap for a junior: urgency 0.9 > 0.8 means pair programming.
	assert.Equal(t, domain.TransferPairProgramming, transfer.Type)
	assert.Equal(t, 8.0, transfer.Hours)
	require.Len(t, store.transfers, 1)
	assert.Len(t, found, 1)
}

func TestTransferTypeThresholds(t *testing.T) {
	tests := []struct {
		urgency float64
		want    domain.TransferType
	}{
		{0.9, domain.TransferPairProgramming},
		{0.7, domain.TransferMentoringSession},
		{0.5, domain.TransferCodeWalkthrough},
		{0.3, domain.TransferDocumentation},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transferTypeFor(tt.urgency))
	}
}

func TestTransferHoursFallback(t *testing.T) {
	assert.Equal(t, 12.0, hoursFor("Architecture"))
	assert.Equal(t, 4.0, hoursFor("Esoteric Skill"))
}

func TestExpertNeverTheLearner(t *testing.T) {
	svc, _, _ := newTestService(t)
	// The learner is the only expert-level Security holder but lacks it in
	// their skill list, so the gap exists and must not self-pair.
	addMember(t, svc, domain.TeamMember{
		ID:     "junior-1",
		Role:   domain.RoleJunior,
		Skills: allSkills()[1:],
		Expertise: []domain.Expertise{
			{Technology: "Security", Level: domain.LevelExpert, Years: 2},
		},
	})

	gaps, err := svc.AnalyzeKnowledgeGaps(context.Background())
	require.NoError(t, err)

	require.Len(t, gaps, 1)
	assert.True(t, gaps[0].Unaddressable)
	assert.Nil(t, gaps[0].Transfer)
}
