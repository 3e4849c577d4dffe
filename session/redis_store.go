package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each visitor's values in one hash.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = "blogview:visitor:"
	}
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) Get(ctx context.Context, visitor, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.prefix+visitor, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStorage) Set(ctx context.Context, visitor, key, value string) error {
	if err := s.client.HSet(ctx, s.prefix+visitor, key, value).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Clear(ctx context.Context, visitor string) error {
	if err := s.client.Del(ctx, s.prefix+visitor).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}
