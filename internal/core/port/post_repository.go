package port

import (
	"context"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// PostFilter narrows published listing queries.
type PostFilter struct {
	Type     domain.PropertyType
	City     string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// PostRepository persists listing records.
type PostRepository interface {
	Create(ctx context.Context, post domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// ExistsActiveAtAddress reports whether a non-deleted listing of the same
	// property type already occupies the street/city/state/country tuple.
	ExistsActiveAtAddress(ctx context.Context, addr domain.Address, propertyType domain.PropertyType) (bool, error)
	// MarkPublished flips a draft to published. Returns ErrNotFound when the
	// post is absent or already published.
	MarkPublished(ctx context.Context, id string, at time.Time) error
	ListPublished(ctx context.Context, filter PostFilter) ([]domain.Post, error)
	UpdatePhotos(ctx context.Context, id string, photos []string) error
	DeleteByIDForUser(ctx context.Context, id string, userID string) error
}
