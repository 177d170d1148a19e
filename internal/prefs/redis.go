package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis so several site instances share them.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects to the server named by a redis:// URL and pings it.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(owner, tableKey string) string {
	return fmt.Sprintf("prefs:%s:%s", owner, tableKey)
}

func (s *RedisStore) Get(ctx context.Context, owner, tableKey string) ([]byte, error) {
	blob, err := s.client.Get(ctx, redisKey(owner, tableKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences from redis: %w", err)
	}
	return blob, nil
}

func (s *RedisStore) Put(ctx context.Context, owner, tableKey string, blob []byte) error {
	if err := s.client.Set(ctx, redisKey(owner, tableKey), blob, 0).Err(); err != nil {
		return fmt.Errorf("writing preferences to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
