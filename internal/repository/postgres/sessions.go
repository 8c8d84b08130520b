package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

const sessionsTable = "estate.sessions"

var sessionColumns = []string{
	"id",
	"user_id",
	"user_agent",
	"created_at",
	"expires_at",
}

// SessionRepository implements port.SessionRepository for PostgreSQL.
type SessionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by any executor satisfying pgExecutor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	return &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a session record.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	sql, args, err := r.builder.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			session.ID,
			session.UserID,
			session.UserAgent,
			session.CreatedAt,
			session.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByID returns a session by identifier.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	sql, args, err := r.builder.
		Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	var session domain.Session
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(
		&session.ID,
		&session.UserID,
		&session.UserAgent,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &session, nil
}

// DeleteByID removes a session regardless of owner.
func (r *SessionRepository) DeleteByID(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByIDForUser removes a session only when the user owns it.
func (r *SessionRepository) DeleteByIDForUser(ctx context.Context, id string, userID string) error {
	sql, args, err := r.builder.Delete(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session for user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete session for user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteAllForUser removes every session of the user and returns the count.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.builder.Delete(sessionsTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete sessions for user: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// UpdateExpiry moves the session expiry forward.
func (r *SessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	sql, args, err := r.builder.Update(sessionsTable).
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update session expiry sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update session expiry: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListActiveByUser returns unexpired sessions for the user, newest first.
func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	now := time.Now().UTC()
	sql, args, err := r.builder.
		Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.UserAgent,
			&session.CreatedAt,
			&session.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
