// Package repository provides the Store implementations: a postgres-backed
// audit store and an in-memory store for tests and single-process mode.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists decision records for the audit trail. Nested suggestion
// structures are stored as jsonb; the engine never queries into them.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ service.Store = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (r *Postgres) SaveConflict(ctx context.Context, c domain.ConflictResolution) error {
	involved, err := json.Marshal(c.InvolvedMembers)
	if err != nil {
		return fmt.Errorf("marshal involved members: %w", err)
	}
	data, err := json.Marshal(c.Data)
	if err != nil {
		return fmt.Errorf("marshal conflict data: %w", err)
	}
	suggestion, err := json.Marshal(c.Suggestion)
	if err != nil {
		return fmt.Errorf("marshal suggestion: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO conflicts (conflict_id, conflict_type, severity, involved_members, payload, suggestion, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, string(c.Type), string(c.Severity), involved, data, suggestion, string(c.Status), c.CreatedAt); err != nil {
		return fmt.Errorf("insert conflict: %w", err)
	}

	return nil
}

func (r *Postgres) GetConflict(ctx context.Context, id string) (domain.ConflictResolution, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT conflict_id, conflict_type, severity, involved_members, payload, suggestion, status, created_at, resolved_at
		FROM conflicts
		WHERE conflict_id = $1
	`, id)

	c, err := scanConflict(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ConflictResolution{}, service.ErrConflictNotFound
	}
	if err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("select conflict: %w", err)
	}

	return c, nil
}

func (r *Postgres) UpdateConflict(ctx context.Context, c domain.ConflictResolution) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE conflicts
		SET status = $2,
		    resolved_at = $3
		WHERE conflict_id = $1
	`, c.ID, string(c.Status), c.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update conflict: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrConflictNotFound
	}

	return nil
}

func (r *Postgres) ListConflicts(ctx context.Context) ([]domain.ConflictResolution, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT conflict_id, conflict_type, severity, involved_members, payload, suggestion, status, created_at, resolved_at
		FROM conflicts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("select conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.ConflictResolution
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conflicts: %w", err)
	}

	return conflicts, nil
}

func scanConflict(row pgx.Row) (domain.ConflictResolution, error) {
	var c domain.ConflictResolution
	var ctype, severity, status string
	var involved, payload, suggestion []byte
	var resolvedAt sql.NullTime

	if err := row.Scan(&c.ID, &ctype, &severity, &involved, &payload, &suggestion, &status, &c.CreatedAt, &resolvedAt); err != nil {
		return domain.ConflictResolution{}, err
	}

	c.Type = domain.ConflictType(ctype)
	c.Severity = domain.ConflictSeverity(severity)
	c.Status = domain.ConflictStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		c.ResolvedAt = &t
	}
	if err := json.Unmarshal(involved, &c.InvolvedMembers); err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("unmarshal involved members: %w", err)
	}
	if err := json.Unmarshal(payload, &c.Data); err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("unmarshal conflict data: %w", err)
	}
	if err := json.Unmarshal(suggestion, &c.Suggestion); err != nil {
		return domain.ConflictResolution{}, fmt.Errorf("unmarshal suggestion: %w", err)
	}

	return c, nil
}

func (r *Postgres) SaveReviewAssignment(ctx context.Context, a domain.CodeReviewAssignment) error {
	suggestions, err := json.Marshal(a.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal reviewer suggestions: %w", err)
	}
	required, err := json.Marshal(a.RequiredExpertise)
	if err != nil {
		return fmt.Errorf("marshal required expertise: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO review_assignments (assignment_id, change_id, author_id, suggestions, priority, estimated_minutes, required_expertise, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.ChangeID, a.Author, suggestions, a.Priority, a.EstimatedMinutes, required, a.CreatedAt); err != nil {
		return fmt.Errorf("insert review assignment: %w", err)
	}

	return nil
}

func (r *Postgres) GetReviewAssignment(ctx context.Context, id string) (domain.CodeReviewAssignment, error) {
	var a domain.CodeReviewAssignment
	var suggestions, required []byte

	err := r.pool.QueryRow(ctx, `
		SELECT assignment_id, change_id, author_id, suggestions, priority, estimated_minutes, required_expertise, created_at
		FROM review_assignments
		WHERE assignment_id = $1
	`, id).Scan(&a.ID, &a.ChangeID, &a.Author, &suggestions, &a.Priority, &a.EstimatedMinutes, &required, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CodeReviewAssignment{}, service.ErrAssignmentNotFound
	}
	if err != nil {
		return domain.CodeReviewAssignment{}, fmt.Errorf("select review assignment: %w", err)
	}

	if err := json.Unmarshal(suggestions, &a.Suggestions); err != nil {
		return domain.CodeReviewAssignment{}, fmt.Errorf("unmarshal reviewer suggestions: %w", err)
	}
	if err := json.Unmarshal(required, &a.RequiredExpertise); err != nil {
		return domain.CodeReviewAssignment{}, fmt.Errorf("unmarshal required expertise: %w", err)
	}

	return a, nil
}

func (r *Postgres) SaveCoordination(ctx context.Context, c domain.TeamCoordination) error {
	skills, err := json.Marshal(c.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal required skills: %w", err)
	}
	suggestions, err := json.Marshal(c.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal assignment suggestions: %w", err)
	}
	deps, err := json.Marshal(c.Dependencies)
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO coordinations (coordination_id, task, required_skills, effort_hours, priority, deadline, suggestions, dependencies, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Task, skills, c.EffortHours, c.Priority, c.Deadline, suggestions, deps, string(c.Status), c.CreatedAt); err != nil {
		return fmt.Errorf("insert coordination: %w", err)
	}

	return nil
}

func (r *Postgres) GetCoordination(ctx context.Context, id string) (domain.TeamCoordination, error) {
	var c domain.TeamCoordination
	var status string
	var skills, suggestions, deps []byte
	var deadline sql.NullTime

	err := r.pool.QueryRow(ctx, `
		SELECT coordination_id, task, required_skills, effort_hours, priority, deadline, suggestions, dependencies, status, created_at
		FROM coordinations
		WHERE coordination_id = $1
	`, id).Scan(&c.ID, &c.Task, &skills, &c.EffortHours, &c.Priority, &deadline, &suggestions, &deps, &status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamCoordination{}, service.ErrCoordinationNotFound
	}
	if err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("select coordination: %w", err)
	}

	c.Status = domain.CoordinationStatus(status)
	if deadline.Valid {
		t := deadline.Time
		c.Deadline = &t
	}
	if err := json.Unmarshal(skills, &c.RequiredSkills); err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("unmarshal required skills: %w", err)
	}
	if err := json.Unmarshal(suggestions, &c.Suggestions); err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("unmarshal assignment suggestions: %w", err)
	}
	if err := json.Unmarshal(deps, &c.Dependencies); err != nil {
		return domain.TeamCoordination{}, fmt.Errorf("unmarshal dependencies: %w", err)
	}

	return c, nil
}

func (r *Postgres) UpdateCoordination(ctx context.Context, c domain.TeamCoordination) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coordinations
		SET status = $2
		WHERE coordination_id = $1
	`, c.ID, string(c.Status))
	if err != nil {
		return fmt.Errorf("update coordination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCoordinationNotFound
	}

	return nil
}

func (r *Postgres) SaveTransfer(ctx context.Context, t domain.KnowledgeTransfer) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO knowledge_transfers (transfer_id, transfer_type, source_id, target_id, topic, approach, hours, priority, scheduled_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, string(t.Type), t.SourceID, t.TargetID, t.Topic, t.Approach, t.Hours, t.Priority, t.ScheduledAt, t.CompletedAt); err != nil {
		return fmt.Errorf("insert knowledge transfer: %w", err)
	}

	return nil
}

func (r *Postgres) ListTransfers(ctx context.Context) ([]domain.KnowledgeTransfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT transfer_id, transfer_type, source_id, target_id, topic, approach, hours, priority, scheduled_at, completed_at
		FROM knowledge_transfers
		ORDER BY priority DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select knowledge transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.KnowledgeTransfer
	for rows.Next() {
		var t domain.KnowledgeTransfer
		var ttype string
		var scheduledAt, completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &ttype, &t.SourceID, &t.TargetID, &t.Topic, &t.Approach, &t.Hours, &t.Priority, &scheduledAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge transfer: %w", err)
		}
		t.Type = domain.TransferType(ttype)
		if scheduledAt.Valid {
			ts := scheduledAt.Time
			t.ScheduledAt = &ts
		}
		if completedAt.Valid {
			ts := completedAt.Time
			t.CompletedAt = &ts
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge transfers: %w", err)
	}

	return transfers, nil
}
