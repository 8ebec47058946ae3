package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HistoryStore persists the whole project history document under a single
// key. The document has no TTL, it lives until overwritten.
type HistoryStore struct {
	client *redis.Client
	key    string
}

func NewHistoryStore(client *redis.Client, key string) *HistoryStore {
	return &HistoryStore{
		client: client,
		key:    key,
	}
}

// Load returns the stored document, or nil when the key does not exist yet.
func (s *HistoryStore) Load(ctx context.Context) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project history failed: %w", err)
	}
	return raw, nil
}

func (s *HistoryStore) Save(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set project history failed: %w", err)
	}
	return nil
}
