package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter stores session state in Redis, the adapter of choice when a
// server-side consumer (a bot or batch job acting on behalf of users) shares
// sessions across processes. Keys are namespaced per owner so one client can
// hold sessions for many identities. The multi-key Delete maps to a single
// DEL command, which Redis executes atomically.
type RedisAdapter struct {
	client *redis.Client
	prefix string
}

// NewRedisAdapter creates a Redis-backed adapter. owner distinguishes
// sessions held by different identities in the same database; it may be
// empty for single-session consumers.
func NewRedisAdapter(client *redis.Client, owner string) *RedisAdapter {
	prefix := "session:"
	if owner != "" {
		prefix = fmt.Sprintf("session:%s:", owner)
	}
	return &RedisAdapter{client: client, prefix: prefix}
}

func (r *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisAdapter) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.prefix + key
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
