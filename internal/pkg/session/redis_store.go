// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores one JSON record per workspace under console:session:<id>.
type RedisBackend struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewRedisBackend(client *redis.Client, defaultTTL time.Duration) *RedisBackend {
	return &RedisBackend{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (b *RedisBackend) Scope(workspaceID string) Store {
	return &redisStore{backend: b, key: sessionKey(workspaceID)}
}

type redisStore struct {
	backend *RedisBackend
	key     string
}

// Load reads the record; a missing key or an undecodable value yields no record.
func (s *redisStore) Load(ctx context.Context) (*Record, error) {
	data, err := s.backend.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}
	r := decode(data)
	if r.Expired(time.Now()) {
		return nil, nil
	}
	return r, nil
}

// Save writes the record with a single SET so it is replaced atomically.
func (s *redisStore) Save(ctx context.Context, r *Record) error {
	if r == nil {
		return s.Clear(ctx)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := s.backend.defaultTTL
	if !r.ExpiresAt.IsZero() {
		ttl = time.Until(r.ExpiresAt)
		if ttl <= 0 {
			return ErrExpired
		}
	}

	if err := s.backend.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.backend.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func sessionKey(workspaceID string) string {
	return fmt.Sprintf("console:session:%s", workspaceID)
}
