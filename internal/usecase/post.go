package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

var (
	// ErrPostNotFound indicates the listing does not exist or is not visible
	// to the caller.
	ErrPostNotFound = errors.New("post not found")
	// ErrListingExists indicates another listing of the same property type
	// already occupies the address.
	ErrListingExists = errors.New("listing already exists at this address")
	// ErrAlreadyPublished indicates the listing left the draft state earlier.
	ErrAlreadyPublished = errors.New("post already published")
)

// PostService manages the listing lifecycle from draft to published.
type PostService struct {
	posts  port.PostRepository
	store  port.ObjectStore
	events port.EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewPostService constructs a post service.
func NewPostService(posts port.PostRepository, store port.ObjectStore, events port.EventPublisher, log *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		store:  store,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreatePostInput carries the listing form fields.
type CreatePostInput struct {
	UserID      string
	Title       string
	Description string
	Type        domain.PropertyType
	Price       float64
	Address     domain.Address
	Bedrooms    int
	Bathrooms   int
	Area        float64
}

// CreateDraft stores a new draft listing. An existing listing of the same
// property type at the same address blocks creation.
func (s *PostService) CreateDraft(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	taken, err := s.posts.ExistsActiveAtAddress(ctx, input.Address, input.Type)
	if err != nil {
		return nil, fmt.Errorf("check address: %w", err)
	}
	if taken {
		return nil, ErrListingExists
	}

	now := s.now()
	post := domain.Post{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
		Price:       input.Price,
		Address:     input.Address,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Area:        input.Area,
		Photos:      []string{},
		Status:      domain.PostStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &post, nil
}

// Publish flips the caller's draft to published exactly once.
func (s *PostService) Publish(ctx context.Context, postID, userID string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	if post.UserID != userID {
		return nil, ErrPostNotFound
	}
	if post.IsPublished() {
		return nil, ErrAlreadyPublished
	}

	now := s.now()
	if err := s.posts.MarkPublished(ctx, post.ID, now); err != nil {
		// The draft predicate did not match, so a concurrent publish won.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyPublished
		}
		return nil, fmt.Errorf("publish post: %w", err)
	}

	post.Status = domain.PostStatusPublished
	post.PublishedAt = &now
	post.UpdatedAt = now

	if err := s.events.PublishPostPublished(ctx, domain.PostPublishedEvent{
		EventID:     uuid.NewString(),
		PostID:      post.ID,
		UserID:      post.UserID,
		City:        post.Address.City,
		Country:     post.Address.Country,
		Price:       post.Price,
		PublishedAt: now,
	}); err != nil {
		s.log.Warn("publish post event", zap.Error(err))
	}

	return post, nil
}

// Get returns a listing. Drafts are visible only to their owner.
func (s *PostService) Get(ctx context.Context, postID, viewerID string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	if !post.IsPublished() && post.UserID != viewerID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListPublished returns published listings matching the filter.
func (s *PostService) ListPublished(ctx context.Context, filter port.PostFilter) ([]domain.Post, error) {
	posts, err := s.posts.ListPublished(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Delete removes the caller's listing and its stored photos. Photo cleanup is
// best effort: the listing row is already gone.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("lookup post: %w", err)
	}

	if err := s.posts.DeleteByIDForUser(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	for _, key := range post.Photos {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("delete photo object",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return nil
}
