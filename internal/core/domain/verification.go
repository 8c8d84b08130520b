package domain

import "time"

// VerificationType partitions one-time codes by purpose. Codes of one type
// never satisfy lookups for another.
type VerificationType string

const (
	VerificationEmail         VerificationType = "email_verification"
	VerificationPasswordReset VerificationType = "password_reset"
)

// VerificationCode is a single-use artifact delivered out of band. The
// identifier itself is the secret embedded in emailed links, so it must be
// generated from a cryptographically random source.
type VerificationCode struct {
	ID        string
	UserID    string
	Type      VerificationType
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the code is no longer redeemable.
func (v VerificationCode) IsExpired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}
