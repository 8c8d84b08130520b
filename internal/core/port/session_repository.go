package port

import (
	"context"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// SessionRepository persists session records.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByIDForUser removes a session only when it belongs to the user.
	DeleteByIDForUser(ctx context.Context, id string, userID string) error
	// DeleteAllForUser removes every session of the user and returns the count.
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error
	// ListActiveByUser returns unexpired sessions, newest first.
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Session, error)
}
