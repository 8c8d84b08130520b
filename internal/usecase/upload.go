package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

// ErrInvalidPhotoKey indicates the key does not belong to the listing's
// object prefix.
var ErrInvalidPhotoKey = errors.New("invalid photo key")

// UploadService hands out presigned URLs for listing photos and records the
// uploaded keys against the listing.
type UploadService struct {
	posts      port.PostRepository
	store      port.ObjectStore
	presignTTL time.Duration
}

// NewUploadService constructs an upload service.
func NewUploadService(posts port.PostRepository, store port.ObjectStore, presignTTL time.Duration) *UploadService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &UploadService{posts: posts, store: store, presignTTL: presignTTL}
}

// UploadTicket pairs the object key the client must use with a presigned PUT URL.
type UploadTicket struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// PhotoLink pairs a stored photo key with a short-lived download URL.
type PhotoLink struct {
	Key string
	URL string
}

// PresignUpload authorizes a direct photo upload for the caller's listing.
func (s *UploadService) PresignUpload(ctx context.Context, postID, userID string) (*UploadTicket, error) {
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	key := photoKey(postID, uuid.NewString())
	url, err := s.store.PresignPut(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &UploadTicket{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.presignTTL),
	}, nil
}

// AttachPhotos records uploaded keys on the listing. Keys outside the
// listing's prefix are rejected so one listing cannot claim another's objects.
func (s *UploadService) AttachPhotos(ctx context.Context, postID, userID string, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("at least one photo key is required")
	}
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return err
	}

	prefix := photoKey(postID, "")
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) || key == prefix {
			return ErrInvalidPhotoKey
		}
	}

	if err := s.posts.UpdatePhotos(ctx, postID, keys); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("update photos: %w", err)
	}

	return nil
}

// ViewURL returns a presigned GET URL for a stored photo key.
func (s *UploadService) ViewURL(ctx context.Context, key string) (string, error) {
	url, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// PhotoLinks returns presigned download URLs for a listing's photos. Drafts are
// visible only to their owner.
func (s *UploadService) PhotoLinks(ctx context.Context, postID, viewerID string) ([]PhotoLink, error) {
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

	links := make([]PhotoLink, 0, len(post.Photos))
	for _, key := range post.Photos {
		url, err := s.store.PresignGet(ctx, key, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign download: %w", err)
		}
		links = append(links, PhotoLink{Key: key, URL: url})
	}
	return links, nil
}

// RemovePhoto detaches a key from the caller's listing and deletes the stored
// object. Keys not present on the listing are rejected.
func (s *UploadService) RemovePhoto(ctx context.Context, postID, userID, key string) error {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	remaining := make([]string, 0, len(post.Photos))
	found := false
	for _, existing := range post.Photos {
		if existing == key {
			found = true
			continue
		}
		remaining = append(remaining, existing)
	}
	if !found {
		return ErrInvalidPhotoKey
	}

	if err := s.posts.UpdatePhotos(ctx, postID, remaining); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("update photos: %w", err)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete photo object: %w", err)
	}
	return nil
}

func (s *UploadService) ownedPost(ctx context.Context, postID, userID string) (*domain.Post, error) {
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
	return post, nil
}

func photoKey(postID, objectID string) string {
	return fmt.Sprintf("posts/%s/%s", postID, objectID)
}
