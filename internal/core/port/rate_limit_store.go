package port

import (
	"context"
	"time"
)

// RateLimitStore captures the persistence operations required for
// sliding-window endpoint throttling.
type RateLimitStore interface {
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
