package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the current user record in a single Redis key.
//
//	Performance: 1 Redis command per operation.
type RedisStorage struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStorage creates a [RedisStorage]. prefix sets the key namespace; the record
// lives at "<prefix>:user".
func NewRedisStorage(client redis.UniversalClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = "campus"
	}
	return &RedisStorage{
		redis:  client,
		prefix: prefix,
	}
}

// Key returns the Redis key holding the record.
func (s *RedisStorage) Key() string {
	return s.prefix + ":user"
}

func (s *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}

// Save overwrites the record. The key never expires; only Clear removes it.
func (s *RedisStorage) Save(ctx context.Context, data []byte) error {
	if err := s.redis.Set(ctx, s.Key(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Clear removes the record. Clearing an empty store is not an error.
func (s *RedisStorage) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.Key()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
