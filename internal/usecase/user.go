package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/repository"
)

// UserService exposes account profile reads.
type UserService struct {
	users port.UserRepository
}

// NewUserService constructs a user service.
func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the account behind the authenticated user id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
