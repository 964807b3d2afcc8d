package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tatianab/read-the-room/internal/models"
)

const redisKeyPrefix = "rtr:session:"

// RedisStore keeps sessions as JSON strings with a native expiry, so idle
// sessions disappear without a sweep.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(opts ...Option) (*RedisStore, error) {
	cfg := Opts{TTL: DefaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	ropts, err := redis.ParseURL(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid redis DSN: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreFromClient(client, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.GameState, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	var st models.GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &st, nil
}

func (s *RedisStore) Put(ctx context.Context, state *models.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", state.ID, err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Expire is a no-op; keys carry their own TTL.
func (s *RedisStore) Expire(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
