package eventstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "events:v1:"

// RedisStore persists per-account event logs as Redis lists. RPUSH is a
// single command, so an append is atomic: it either lands in full or the
// call fails.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a Redis-backed event store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(accountID string) string {
	return redisKeyPrefix + accountID
}

// Append serializes the record and pushes it onto the account's list.
func (s *RedisStore) Append(ctx context.Context, accountID string, rec Record) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrAppendFailed, err)
	}
	if err := s.client.RPush(ctx, s.key(accountID), payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

// ReadAll fetches the account's list in insertion order.
func (s *RedisStore) ReadAll(ctx context.Context, accountID string) ([]Record, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	raw, err := s.client.LRange(ctx, s.key(accountID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", accountID, err)
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("corrupt event %s[%d]: %w", accountID, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
