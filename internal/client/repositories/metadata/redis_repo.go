package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps values as plain Redis strings under prefix+key.
// Values never expire on their own.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(rdb redis.UniversalClient, prefix string) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) key(key string) string {
	return r.prefix + key
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
