package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

type postFixture struct {
	service *PostService
	posts   *stubPostRepo
	store   *stubObjectStore
	events  *stubEventPublisher
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	posts := newStubPostRepo()
	store := &stubObjectStore{}
	events := &stubEventPublisher{}

	return &postFixture{
		service: NewPostService(posts, store, events, zap.NewNop()),
		posts:   posts,
		store:   store,
		events:  events,
	}
}

func (f *postFixture) seedPost(id, userID string, status domain.PostStatus) domain.Post {
	now := time.Now().UTC()
	post := domain.Post{
		ID:     id,
		UserID: userID,
		Title:  "Sunny two bedroom",
		Type:   domain.PropertyApartment,
		Price:  250000,
		Address: domain.Address{
			Street:  "12 Main St",
			City:    "Austin",
			State:   "TX",
			Country: "US",
			Zip:     "78701",
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == domain.PostStatusPublished {
		published := now
		post.PublishedAt = &published
	}
	f.posts.posts[id] = post
	return post
}

func TestCreateDraft(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.service.CreateDraft(context.Background(), CreatePostInput{
		UserID: "agent-1",
		Title:  "Sunny two bedroom",
		Type:   domain.PropertyApartment,
		Price:  250000,
		Address: domain.Address{
			Street:  "12 Main St",
			City:    "Austin",
			State:   "TX",
			Country: "US",
			Zip:     "78701",
		},
	})
	if err != nil {
		t.Fatalf("CreateDraft returned error: %v", err)
	}

	if post.Status != domain.PostStatusDraft {
		t.Fatalf("expected draft status, got %q", post.Status)
	}
	if post.PublishedAt != nil {
		t.Fatal("expected no publish timestamp on a draft")
	}
	if _, ok := f.posts.posts[post.ID]; !ok {
		t.Fatal("expected the draft to be stored")
	}
}

func TestCreateDraftDuplicateAddress(t *testing.T) {
	f := newPostFixture(t)
	f.posts.addressTaken = true

	_, err := f.service.CreateDraft(context.Background(), CreatePostInput{
		UserID:  "agent-1",
		Title:   "Sunny two bedroom",
		Type:    domain.PropertyApartment,
		Price:   250000,
		Address: domain.Address{Street: "12 Main St", City: "Austin", State: "TX", Country: "US"},
	})
	if !errors.Is(err, ErrListingExists) {
		t.Fatalf("expected ErrListingExists, got %v", err)
	}
}

func TestPublishDraft(t *testing.T) {
	f := newPostFixture(t)
	f.seedPost("post-1", "agent-1", domain.PostStatusDraft)

	post, err := f.service.Publish(context.Background(), "post-1", "agent-1")
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !post.IsPublished() {
		t.Fatal("expected the post to be published")
	}
	if post.PublishedAt == nil {
		t.Fatal("expected a publish timestamp")
	}
	if len(f.events.postPublished) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.events.postPublished))
	}
}

func TestPublishTwice(t *testing.T) {
	f := newPostFixture(t)
	f.seedPost("post-1", "agent-1", domain.PostStatusDraft)

	if _, err := f.service.Publish(context.Background(), "post-1", "agent-1"); err != nil {
		t.Fatalf("first Publish returned error: %v", err)
	}

	_, err := f.service.Publish(context.Background(), "post-1", "agent-1")
	if !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
}

func TestPublishForeignPost(t *testing.T) {
	f := newPostFixture(t)
	f.seedPost("post-1", "agent-1", domain.PostStatusDraft)

	_, err := f.service.Publish(context.Background(), "post-1", "intruder")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for a foreign post, got %v", err)
	}
}

func TestGetHidesDraftsFromStrangers(t *testing.T) {
	f := newPostFixture(t)
	f.seedPost("post-1", "agent-1", domain.PostStatusDraft)

	if _, err := f.service.Get(context.Background(), "post-1", "agent-1"); err != nil {
		t.Fatalf("owner should see the draft, got %v", err)
	}

	_, err := f.service.Get(context.Background(), "post-1", "stranger")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for a stranger, got %v", err)
	}
}

func TestDeleteRemovesStoredPhotos(t *testing.T) {
	f := newPostFixture(t)
	post := f.seedPost("post-1", "agent-1", domain.PostStatusPublished)
	post.Photos = []string{"posts/post-1/a.jpg", "posts/post-1/b.jpg"}
	f.posts.posts[post.ID] = post

	if err := f.service.Delete(context.Background(), "post-1", "agent-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, ok := f.posts.posts["post-1"]; ok {
		t.Fatal("expected the post row to be deleted")
	}
	if len(f.store.deletedKeys) != 2 {
		t.Fatalf("expected 2 deleted objects, got %d", len(f.store.deletedKeys))
	}
}

func TestDeleteForeignPost(t *testing.T) {
	f := newPostFixture(t)
	f.seedPost("post-1", "agent-1", domain.PostStatusPublished)

	err := f.service.Delete(context.Background(), "post-1", "intruder")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if len(f.store.deletedKeys) != 0 {
		t.Fatal("expected no object deletions for a rejected request")
	}
}

func TestLeadCaptureRequiresPublishedPost(t *testing.T) {
	posts := newStubPostRepo()
	leads := newStubLeadRepo()
	events := &stubEventPublisher{}
	service := NewLeadService(leads, posts, events, zap.NewNop())

	now := time.Now().UTC()
	posts.posts["post-1"] = domain.Post{ID: "post-1", UserID: "agent-1", Status: domain.PostStatusDraft, CreatedAt: now}

	_, err := service.Capture(context.Background(), CaptureLeadInput{
		PostID: "post-1",
		Email:  "buyer@example.com",
		Name:   "Sam Buyer",
	})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for a draft, got %v", err)
	}

	published := now
	posts.posts["post-1"] = domain.Post{
		ID: "post-1", UserID: "agent-1",
		Status: domain.PostStatusPublished, PublishedAt: &published, CreatedAt: now,
	}

	lead, err := service.Capture(context.Background(), CaptureLeadInput{
		PostID:  "post-1",
		Email:   "Buyer@Example.com",
		Name:    "Sam Buyer",
		Message: "Is it still available?",
	})
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if lead.AgentID != "agent-1" {
		t.Fatalf("expected the lead routed to the listing owner, got %q", lead.AgentID)
	}
	if lead.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", lead.Email)
	}
	if len(events.leadCaptured) != 1 {
		t.Fatalf("expected 1 captured event, got %d", len(events.leadCaptured))
	}
}

func TestPresignUploadOwnership(t *testing.T) {
	posts := newStubPostRepo()
	store := &stubObjectStore{}
	service := NewUploadService(posts, store, 15*time.Minute)

	now := time.Now().UTC()
	posts.posts["post-1"] = domain.Post{ID: "post-1", UserID: "agent-1", Status: domain.PostStatusDraft, CreatedAt: now}

	ticket, err := service.PresignUpload(context.Background(), "post-1", "agent-1")
	if err != nil {
		t.Fatalf("PresignUpload returned error: %v", err)
	}
	const prefix = "posts/post-1/"
	if len(ticket.Key) <= len(prefix) || ticket.Key[:len(prefix)] != prefix {
		t.Fatalf("expected key under %q, got %q", prefix, ticket.Key)
	}
	if ticket.URL == "" {
		t.Fatal("expected a presigned URL")
	}

	if _, err := service.PresignUpload(context.Background(), "post-1", "intruder"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for a foreign post, got %v", err)
	}
}

func TestAttachPhotosRejectsForeignKeys(t *testing.T) {
	posts := newStubPostRepo()
	store := &stubObjectStore{}
	service := NewUploadService(posts, store, 15*time.Minute)

	now := time.Now().UTC()
	posts.posts["post-1"] = domain.Post{ID: "post-1", UserID: "agent-1", Status: domain.PostStatusDraft, CreatedAt: now}

	err := service.AttachPhotos(context.Background(), "post-1", "agent-1", []string{"posts/other-post/x.jpg"})
	if !errors.Is(err, ErrInvalidPhotoKey) {
		t.Fatalf("expected ErrInvalidPhotoKey, got %v", err)
	}

	keys := []string{"posts/post-1/x.jpg", "posts/post-1/y.jpg"}
	if err := service.AttachPhotos(context.Background(), "post-1", "agent-1", keys); err != nil {
		t.Fatalf("AttachPhotos returned error: %v", err)
	}
	if len(posts.photosSet["post-1"]) != 2 {
		t.Fatalf("expected 2 keys recorded, got %d", len(posts.photosSet["post-1"]))
	}
}

func TestPhotoLinksHideDraftsFromStrangers(t *testing.T) {
	posts := newStubPostRepo()
	store := &stubObjectStore{}
	service := NewUploadService(posts, store, 15*time.Minute)

	now := time.Now().UTC()
	posts.posts["post-1"] = domain.Post{
		ID:        "post-1",
		UserID:    "agent-1",
		Status:    domain.PostStatusDraft,
		Photos:    []string{"posts/post-1/x.jpg"},
		CreatedAt: now,
	}

	if _, err := service.PhotoLinks(context.Background(), "post-1", "stranger"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for a stranger, got %v", err)
	}

	links, err := service.PhotoLinks(context.Background(), "post-1", "agent-1")
	if err != nil {
		t.Fatalf("PhotoLinks returned error: %v", err)
	}
	if len(links) != 1 || links[0].Key != "posts/post-1/x.jpg" || links[0].URL == "" {
		t.Fatalf("unexpected links: %+v", links)
	}
}

func TestRemovePhotoDetachesAndDeletes(t *testing.T) {
	posts := newStubPostRepo()
	store := &stubObjectStore{}
	service := NewUploadService(posts, store, 15*time.Minute)

	now := time.Now().UTC()
	posts.posts["post-1"] = domain.Post{
		ID:        "post-1",
		UserID:    "agent-1",
		Status:    domain.PostStatusPublished,
		Photos:    []string{"posts/post-1/x.jpg", "posts/post-1/y.jpg"},
		CreatedAt: now,
	}

	if err := service.RemovePhoto(context.Background(), "post-1", "agent-1", "posts/post-1/z.jpg"); !errors.Is(err, ErrInvalidPhotoKey) {
		t.Fatalf("expected ErrInvalidPhotoKey for a detached key, got %v", err)
	}

	if err := service.RemovePhoto(context.Background(), "post-1", "agent-1", "posts/post-1/x.jpg"); err != nil {
		t.Fatalf("RemovePhoto returned error: %v", err)
	}
	if got := posts.photosSet["post-1"]; len(got) != 1 || got[0] != "posts/post-1/y.jpg" {
		t.Fatalf("unexpected remaining photos: %v", got)
	}
	if len(store.deletedKeys) != 1 || store.deletedKeys[0] != "posts/post-1/x.jpg" {
		t.Fatalf("unexpected deleted keys: %v", store.deletedKeys)
	}
}
