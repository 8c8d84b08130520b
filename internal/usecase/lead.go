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

// ErrLeadNotFound indicates the lead does not exist or belongs to another agent.
var ErrLeadNotFound = errors.New("lead not found")

// LeadService captures visitor inquiries and routes them to listing owners.
type LeadService struct {
	leads  port.LeadRepository
	posts  port.PostRepository
	events port.EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewLeadService constructs a lead service.
func NewLeadService(leads port.LeadRepository, posts port.PostRepository, events port.EventPublisher, log *zap.Logger) *LeadService {
	return &LeadService{
		leads:  leads,
		posts:  posts,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CaptureLeadInput carries the public inquiry form fields.
type CaptureLeadInput struct {
	PostID  string
	Email   string
	Name    string
	Phone   string
	Message string
}

// Capture records an inquiry against a published listing. Drafts do not
// accept inquiries and report not found.
func (s *LeadService) Capture(ctx context.Context, input CaptureLeadInput) (*domain.Lead, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	post, err := s.posts.GetByID(ctx, input.PostID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	if !post.IsPublished() {
		return nil, ErrPostNotFound
	}

	now := s.now()
	lead := domain.Lead{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		AgentID:   post.UserID,
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: now,
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if err := s.events.PublishLeadCaptured(ctx, domain.LeadCapturedEvent{
		EventID:    uuid.NewString(),
		LeadID:     lead.ID,
		PostID:     lead.PostID,
		AgentID:    lead.AgentID,
		Email:      lead.Email,
		CapturedAt: now,
	}); err != nil {
		s.log.Warn("publish lead captured event", zap.Error(err))
	}

	return &lead, nil
}

// Get returns one of the agent's leads.
func (s *LeadService) Get(ctx context.Context, leadID, agentID string) (*domain.Lead, error) {
	lead, err := s.leads.GetByIDForAgent(ctx, leadID, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("lookup lead: %w", err)
	}
	return lead, nil
}

// ListForAgent returns the agent's leads, newest first.
func (s *LeadService) ListForAgent(ctx context.Context, agentID string) ([]domain.Lead, error) {
	leads, err := s.leads.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}
