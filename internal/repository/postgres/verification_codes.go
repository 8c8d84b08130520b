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

const verificationCodesTable = "estate.verification_codes"

var verificationCodeColumns = []string{
	"id",
	"user_id",
	"code_type",
	"created_at",
	"expires_at",
}

// VerificationCodeRepository implements port.VerificationCodeRepository for PostgreSQL.
type VerificationCodeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewVerificationCodeRepository constructs a repository backed by any executor satisfying pgExecutor.
func NewVerificationCodeRepository(exec pgExecutor) *VerificationCodeRepository {
	return &VerificationCodeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a verification code record.
func (r *VerificationCodeRepository) Create(ctx context.Context, code domain.VerificationCode) error {
	sql, args, err := r.builder.Insert(verificationCodesTable).
		Columns(verificationCodeColumns...).
		Values(
			code.ID,
			code.UserID,
			code.Type,
			code.CreatedAt,
			code.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert verification code sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert verification code: %w", err)
	}

	return nil
}

// GetActive returns the code when it matches the type and has not expired.
// Expired or mistyped codes are indistinguishable from absent ones.
func (r *VerificationCodeRepository) GetActive(ctx context.Context, id string, codeType domain.VerificationType) (*domain.VerificationCode, error) {
	sql, args, err := r.builder.
		Select(verificationCodeColumns...).
		From(verificationCodesTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"code_type": codeType}).
		Where(squirrel.Gt{"expires_at": time.Now().UTC()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select verification code sql: %w", err)
	}

	var code domain.VerificationCode
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(
		&code.ID,
		&code.UserID,
		&code.Type,
		&code.CreatedAt,
		&code.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan verification code: %w", err)
	}

	return &code, nil
}

// Delete consumes a code.
func (r *VerificationCodeRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Delete(verificationCodesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete verification code sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountActiveSince counts unexpired codes of the type created at or after since.
func (r *VerificationCodeRepository) CountActiveSince(ctx context.Context, userID string, codeType domain.VerificationType, since time.Time) (int, error) {
	sql, args, err := r.builder.
		Select("COUNT(*)").
		From(verificationCodesTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"code_type": codeType}).
		Where(squirrel.GtOrEq{"created_at": since}).
		Where(squirrel.Gt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count verification codes sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan verification codes count: %w", err)
	}

	return int(count), nil
}

var _ port.VerificationCodeRepository = (*VerificationCodeRepository)(nil)
