package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

// ErrSessionNotFound indicates the session does not exist or belongs to
// another user.
var ErrSessionNotFound = errors.New("session not found")

// SessionService exposes session inventory and revocation for the account owner.
type SessionService struct {
	sessions port.SessionRepository
}

// NewSessionService constructs a session service.
func NewSessionService(sessions port.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// ListForUser returns the user's unexpired sessions, newest first.
func (s *SessionService) ListForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Revoke deletes one of the user's sessions. Ownership is enforced at the
// repository so a foreign session id reports not found.
func (s *SessionService) Revoke(ctx context.Context, sessionID, userID string) error {
	if err := s.sessions.DeleteByIDForUser(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
