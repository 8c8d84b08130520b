package port

import (
	"context"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// VerificationCodeRepository persists one-time verification codes.
type VerificationCodeRepository interface {
	Create(ctx context.Context, code domain.VerificationCode) error
	// GetActive returns the code only when it matches the type and has not expired.
	GetActive(ctx context.Context, id string, codeType domain.VerificationType) (*domain.VerificationCode, error)
	Delete(ctx context.Context, id string) error
	// CountActiveSince counts unexpired codes of the type created at or after since.
	CountActiveSince(ctx context.Context, userID string, codeType domain.VerificationType, since time.Time) (int, error)
}
