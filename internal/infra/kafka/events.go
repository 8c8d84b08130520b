package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	SubjectID string           `json:"subject_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subjectID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		SubjectID: subjectID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes estate.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Email        string         `json:"email"`
		UserType     string         `json:"user_type"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		UserType:     event.UserType,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "estate.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishPasswordChanged publishes estate.user.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		UserID          string         `json:"user_id"`
		ChangedAt       time.Time      `json:"changed_at"`
		SessionsRevoked int            `json:"sessions_revoked"`
		Metadata        map[string]any `json:"metadata,omitempty"`
	}{
		UserID:          event.UserID,
		ChangedAt:       event.ChangedAt.UTC(),
		SessionsRevoked: event.SessionsRevoked,
		Metadata:        event.Metadata,
	}

	return p.publish(ctx, event.EventID, "estate.user.password.changed", event.UserID, event.ChangedAt, payload)
}

// PublishPostPublished publishes estate.post.published events.
func (p *EventPublisher) PublishPostPublished(ctx context.Context, event domain.PostPublishedEvent) error {
	payload := struct {
		PostID      string         `json:"post_id"`
		UserID      string         `json:"user_id"`
		City        string         `json:"city"`
		Country     string         `json:"country"`
		Price       float64        `json:"price"`
		PublishedAt time.Time      `json:"published_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		PostID:      event.PostID,
		UserID:      event.UserID,
		City:        event.City,
		Country:     event.Country,
		Price:       event.Price,
		PublishedAt: event.PublishedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "estate.post.published", event.PostID, event.PublishedAt, payload)
}

// PublishLeadCaptured publishes estate.lead.captured events.
func (p *EventPublisher) PublishLeadCaptured(ctx context.Context, event domain.LeadCapturedEvent) error {
	payload := struct {
		LeadID     string         `json:"lead_id"`
		PostID     string         `json:"post_id"`
		AgentID    string         `json:"agent_id"`
		Email      string         `json:"email"`
		CapturedAt time.Time      `json:"captured_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		LeadID:     event.LeadID,
		PostID:     event.PostID,
		AgentID:    event.AgentID,
		Email:      event.Email,
		CapturedAt: event.CapturedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "estate.lead.captured", event.LeadID, event.CapturedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
