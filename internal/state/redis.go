package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cooldown mapping in a single Redis hash, for
// deployments where the scheduler runs the scanner on ephemeral hosts
// with no durable filesystem.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore using hash key, or
// "squeeze:cooldowns" when key is empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "squeeze:cooldowns"
	}
	return &RedisStore{client: client, key: key}
}

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// Load reads the full hash. A missing key is a first run.
func (s *RedisStore) Load(ctx context.Context) (map[string]int64, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.key, err)
	}

	cooldowns := make(map[string]int64, len(fields))
	for field, raw := range fields {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse cooldown %s=%q: %w", field, raw, err)
		}
		cooldowns[field] = ts
	}
	return cooldowns, nil
}

// Save replaces the hash with the given mapping in one pipeline.
func (s *RedisStore) Save(ctx context.Context, cooldowns map[string]int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(cooldowns) > 0 {
		fields := make(map[string]interface{}, len(cooldowns))
		for k, v := range cooldowns {
			fields[k] = strconv.FormatInt(v, 10)
		}
		pipe.HSet(ctx, s.key, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save cooldowns: %w", err)
	}
	return nil
}
