package port

import (
	"context"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// UserRepository persists account records.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	SetVerified(ctx context.Context, id string, verified bool) error
}
