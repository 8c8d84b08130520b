package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subjectID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("subject_id", subjectID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs estate.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"user_type":     event.UserType,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("estate.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishPasswordChanged logs estate.user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":          event.UserID,
		"changed_at":       event.ChangedAt,
		"sessions_revoked": event.SessionsRevoked,
		"metadata":         event.Metadata,
	}
	p.logEvent("estate.user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishPostPublished logs estate.post.published events.
func (p *StubPublisher) PublishPostPublished(_ context.Context, event domain.PostPublishedEvent) error {
	payload := map[string]any{
		"post_id":      event.PostID,
		"user_id":      event.UserID,
		"city":         event.City,
		"country":      event.Country,
		"price":        event.Price,
		"published_at": event.PublishedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("estate.post.published", event.PostID, event.PublishedAt, payload)
	return nil
}

// PublishLeadCaptured logs estate.lead.captured events.
func (p *StubPublisher) PublishLeadCaptured(_ context.Context, event domain.LeadCapturedEvent) error {
	payload := map[string]any{
		"lead_id":     event.LeadID,
		"post_id":     event.PostID,
		"agent_id":    event.AgentID,
		"email":       event.Email,
		"captured_at": event.CapturedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("estate.lead.captured", event.LeadID, event.CapturedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
