package domain

import "time"

// Session anchors a refresh token to a server-side record. Deleting the
// session invalidates every refresh token minted for it.
type Session struct {
	ID        string
	UserID    string
	UserAgent *string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session has passed its expiry.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// NeedsRenewal reports whether the session expires within the provided window
// and should be extended on the next refresh.
func (s Session) NeedsRenewal(now time.Time, window time.Duration) bool {
	return s.ExpiresAt.Sub(now) <= window
}
