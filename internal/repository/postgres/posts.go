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

const postsTable = "estate.posts"

var postColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"property_type",
	"price",
	"street",
	"city",
	"state",
	"country",
	"zip",
	"bedrooms",
	"bathrooms",
	"area",
	"photos",
	"status",
	"published_at",
	"created_at",
	"updated_at",
}

// PostRepository implements port.PostRepository for PostgreSQL. Photo keys are
// stored as a text array column.
type PostRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPostRepository constructs a repository backed by any executor satisfying pgExecutor.
func NewPostRepository(exec pgExecutor) *PostRepository {
	return &PostRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a listing row.
func (r *PostRepository) Create(ctx context.Context, post domain.Post) error {
	sql, args, err := r.builder.Insert(postsTable).
		Columns(postColumns...).
		Values(
			post.ID,
			post.UserID,
			post.Title,
			post.Description,
			post.Type,
			post.Price,
			post.Address.Street,
			post.Address.City,
			post.Address.State,
			post.Address.Country,
			post.Address.Zip,
			post.Bedrooms,
			post.Bathrooms,
			post.Area,
			post.Photos,
			post.Status,
			post.PublishedAt,
			post.CreatedAt,
			post.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert post sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a listing by identifier.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	sql, args, err := r.builder.
		Select(postColumns...).
		From(postsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select post sql: %w", err)
	}

	return r.scanPost(r.exec.QueryRow(ctx, sql, args...))
}

// ExistsActiveAtAddress reports whether a listing of the same property type
// already occupies the address tuple.
func (r *PostRepository) ExistsActiveAtAddress(ctx context.Context, addr domain.Address, propertyType domain.PropertyType) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(postsTable).
		Where(squirrel.Eq{
			"street":        addr.Street,
			"city":          addr.City,
			"state":         addr.State,
			"country":       addr.Country,
			"property_type": propertyType,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists post sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check post exists: %w", err)
	}

	return true, nil
}

// MarkPublished flips a draft to published exactly once. The status predicate
// makes concurrent publish attempts race-safe: only one update matches.
func (r *PostRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	sql, args, err := r.builder.Update(postsTable).
		Set("status", domain.PostStatusPublished).
		Set("published_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.PostStatusDraft}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build publish post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListPublished returns published listings matching the filter, newest first.
func (r *PostRepository) ListPublished(ctx context.Context, filter port.PostFilter) ([]domain.Post, error) {
	query := r.builder.
		Select(postColumns...).
		From(postsTable).
		Where(squirrel.Eq{"status": domain.PostStatusPublished}).
		OrderBy("published_at DESC")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"property_type": filter.Type})
	}
	if filter.City != "" {
		query = query.Where(squirrel.Eq{"city": filter.City})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// UpdatePhotos replaces the photo key list.
func (r *PostRepository) UpdatePhotos(ctx context.Context, id string, photos []string) error {
	sql, args, err := r.builder.Update(postsTable).
		Set("photos", photos).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update photos sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update photos: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByIDForUser removes a listing only when the user owns it.
func (r *PostRepository) DeleteByIDForUser(ctx context.Context, id string, userID string) error {
	sql, args, err := r.builder.Delete(postsTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PostRepository) scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Description,
		&post.Type,
		&post.Price,
		&post.Address.Street,
		&post.Address.City,
		&post.Address.State,
		&post.Address.Country,
		&post.Address.Zip,
		&post.Bedrooms,
		&post.Bathrooms,
		&post.Area,
		&post.Photos,
		&post.Status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return &post, nil
}

var _ port.PostRepository = (*PostRepository)(nil)
