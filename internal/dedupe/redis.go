package dedupe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Set backed by a Redis hash, for batch runs that span processes.
// The key expires after ttl so stale runs do not flag fresh documents.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed set using the given key.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (r *Redis) Seen(ctx context.Context, hash string) (string, bool, error) {
	source, err := r.client.HGet(ctx, r.key, hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("check hash: %w", err)
	}
	return source, true, nil
}

func (r *Redis) Add(ctx context.Context, hash, source string) error {
	if err := r.client.HSetNX(ctx, r.key, hash, source).Err(); err != nil {
		return fmt.Errorf("record hash: %w", err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return fmt.Errorf("set hash expiry: %w", err)
		}
	}
	return nil
}
