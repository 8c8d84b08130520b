package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

const leadsTable = "estate.leads"

var leadColumns = []string{
	"id",
	"post_id",
	"agent_id",
	"email",
	"name",
	"phone",
	"message",
	"created_at",
}

// LeadRepository implements port.LeadRepository for PostgreSQL.
type LeadRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLeadRepository constructs a repository backed by any executor satisfying pgExecutor.
func NewLeadRepository(exec pgExecutor) *LeadRepository {
	return &LeadRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a lead record.
func (r *LeadRepository) Create(ctx context.Context, lead domain.Lead) error {
	sql, args, err := r.builder.Insert(leadsTable).
		Columns(leadColumns...).
		Values(
			lead.ID,
			lead.PostID,
			lead.AgentID,
			lead.Email,
			lead.Name,
			lead.Phone,
			lead.Message,
			lead.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert lead sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// GetByIDForAgent returns the lead only when the agent owns it.
func (r *LeadRepository) GetByIDForAgent(ctx context.Context, id string, agentID string) (*domain.Lead, error) {
	sql, args, err := r.builder.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"agent_id": agentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lead sql: %w", err)
	}

	var lead domain.Lead
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(
		&lead.ID,
		&lead.PostID,
		&lead.AgentID,
		&lead.Email,
		&lead.Name,
		&lead.Phone,
		&lead.Message,
		&lead.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	return &lead, nil
}

// ListByAgent returns the agent's leads, newest first.
func (r *LeadRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Lead, error) {
	sql, args, err := r.builder.
		Select(leadColumns...).
		From(leadsTable).
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list leads sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.PostID,
			&lead.AgentID,
			&lead.Email,
			&lead.Name,
			&lead.Phone,
			&lead.Message,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

var _ port.LeadRepository = (*LeadRepository)(nil)
