package port

import (
	"context"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// EventPublisher emits platform lifecycle events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishPostPublished(ctx context.Context, event domain.PostPublishedEvent) error
	PublishLeadCaptured(ctx context.Context, event domain.LeadCapturedEvent) error
}
