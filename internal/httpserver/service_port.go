package httpserver

import (
	"context"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
)

// Service is the engine surface the HTTP handlers consume.
type Service interface {
	AddMember(ctx context.Context, member domain.TeamMember) error
	GetMember(ctx context.Context, id string) (domain.TeamMember, error)
	ListMembers(ctx context.Context) ([]domain.TeamMember, error)
	RemoveMember(ctx context.Context, id string) error
	SetMemberWorkload(ctx context.Context, id string, workload int) (domain.TeamMember, error)
	SetMemberAvailability(ctx context.Context, id string, status domain.AvailabilityStatus) (domain.TeamMember, error)

	DetectConflict(ctx context.Context, involved []string, data domain.ConflictData) (domain.ConflictResolution, error)
	ReportPriorityConflict(ctx context.Context, involved []string, data domain.ConflictData) (domain.ConflictResolution, error)
	TransitionConflict(ctx context.Context, id string, next domain.ConflictStatus) (domain.ConflictResolution, error)
	GetConflict(ctx context.Context, id string) (domain.ConflictResolution, error)
	ListConflicts(ctx context.Context) ([]domain.ConflictResolution, error)

	AssignReviewers(ctx context.Context, changeID, author string, paths []string, priority string) (domain.CodeReviewAssignment, error)
	GetReviewAssignment(ctx context.Context, id string) (domain.CodeReviewAssignment, error)

	CoordinateTask(ctx context.Context, req service.TaskRequest) (domain.TeamCoordination, error)
	TransitionCoordination(ctx context.Context, id string, next domain.CoordinationStatus) (domain.TeamCoordination, error)
	GetCoordination(ctx context.Context, id string) (domain.TeamCoordination, error)

	AnalyzeKnowledgeGaps(ctx context.Context) ([]domain.KnowledgeGap, error)
	ListTransfers(ctx context.Context) ([]domain.KnowledgeTransfer, error)
}

// MetricsFeed exposes the sampler's retained history.
type MetricsFeed interface {
	History() []domain.TeamMetrics
}
