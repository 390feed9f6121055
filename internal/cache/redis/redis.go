package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new redis cache that complies with cache interface
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	rClient := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	retryTicker := time.NewTicker(time.Second * 2)
	defer retryTicker.Stop()

	// retry ping
	var pingErr error
	for attempt := range 5 {
		if pingErr = rClient.Ping(ctx).Err(); pingErr == nil {
			break
		}
		if attempt == 4 {
			break
		}
		select {
		case <-retryTicker.C:
		case <-ctx.Done():
			_ = rClient.Close()
			return nil, fmt.Errorf("failed to ping redis instance: %w", ctx.Err())
		}
	}
	if pingErr != nil {
		_ = rClient.Close()
		return nil, fmt.Errorf("failed to ping redis instance: %w", pingErr)
	}

	return &RedisCache{
		client: rClient,
	}, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, ttl).Result()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
