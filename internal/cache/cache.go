package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// SetNX stores val only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error)
}
