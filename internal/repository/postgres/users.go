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

const usersTable = "estate.users"

var userColumns = []string{
	"id",
	"email",
	"password_hash",
	"first_name",
	"last_name",
	"company",
	"phone",
	"user_type",
	"verified",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor satisfying pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row. Unique email violations surface as
// *pgconn.PgError with code 23505.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	sql, args, err := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Company,
			user.Phone,
			user.UserType,
			user.Verified,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// ExistsByEmail reports whether any user owns the email address.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists user sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

// UpdatePassword rotates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetVerified updates the email verification flag.
func (r *UserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("verified", verified).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update verified sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update verified: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Company,
		&user.Phone,
		&user.UserType,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
