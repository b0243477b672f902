package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

// RedisRepo caches JSON-encoded values. A nil client turns every call into a
// cache miss so the service runs without Redis.
type RedisRepo struct {
	client *redis_v9.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis_v9.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisRepo) SaveStructCached(ctx context.Context, key string, model any) error {
	if r.client == nil {
		return nil
	}
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	return nil
}

// GetStructCached decodes key into model and reports whether it was present.
func (r *RedisRepo) GetStructCached(ctx context.Context, key string, model any) (bool, error) {
	if r.client == nil {
		return false, nil
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis_v9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("error get struct in cache: %w", err)
	}
	if err := json.Unmarshal(raw, model); err != nil {
		return false, fmt.Errorf("error decoding cached struct: %w", err)
	}
	return true, nil
}

func (r *RedisRepo) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
