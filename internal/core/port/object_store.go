package port

import (
	"context"
	"time"
)

// ObjectStore exposes presigned access to listing photo storage.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
