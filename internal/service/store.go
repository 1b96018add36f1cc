package service

import (
	"context"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
)

// Store persists decision records. Conflicts form the audit trail and are
// never deleted; review assignments are immutable once saved. The engine
// holds no store state of its own, so a failed call leaves nothing partial
// behind.
type Store interface {
	SaveConflict(ctx context.Context, c domain.ConflictResolution) error
	GetConflict(ctx context.Context, id string) (domain.ConflictResolution, error)
	UpdateConflict(ctx context.Context, c domain.ConflictResolution) error
	ListConflicts(ctx context.Context) ([]domain.ConflictResolution, error)

	SaveReviewAssignment(ctx context.Context, a domain.CodeReviewAssignment) error
	GetReviewAssignment(ctx context.Context, id string) (domain.CodeReviewAssignment, error)

	SaveCoordination(ctx context.Context, c domain.TeamCoordination) error
	GetCoordination(ctx context.Context, id string) (domain.TeamCoordination, error)
	UpdateCoordination(ctx context.Context, c domain.TeamCoordination) error

	SaveTransfer(ctx context.Context, t domain.KnowledgeTransfer) error
	ListTransfers(ctx context.Context) ([]domain.KnowledgeTransfer, error)
}
