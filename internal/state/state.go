package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ymm/catalog/internal/domain"
)

// SessionStore keeps the last search of each storefront session so a results view
// opened by navigation can rebuild it. Concurrent tabs of one session are not synchronized.
type SessionStore interface {
	// GetSearch returns nil when the session has no stored search
	GetSearch(ctx context.Context, sessionID string) (*domain.SearchData, error)
	SaveSearch(ctx context.Context, sessionID string, data domain.SearchData) error
	ClearSearch(ctx context.Context, sessionID string) error
}

// EventCounter tallies consumed events per type
type EventCounter interface {
	Increment(ctx context.Context, eventType string) error
	Counts(ctx context.Context) (map[string]int64, error)
}

type redisSessionStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisSessionStore(redisClient *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		keyPrefix:   "ymm:session:search:",
		ttl:         ttl,
	}
}

func (s *redisSessionStore) GetSearch(ctx context.Context, sessionID string) (*domain.SearchData, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get search data for session %s: %w", sessionID, err)
	}

	var data domain.SearchData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("failed to decode search data for session %s: %w", sessionID, err)
	}

	return &data, nil
}

func (s *redisSessionStore) SaveSearch(ctx context.Context, sessionID string, data domain.SearchData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode search data: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.keyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save search data for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisSessionStore) ClearSearch(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear search data for session %s: %w", sessionID, err)
	}
	return nil
}

type redisEventCounter struct {
	redisClient *redis.Client
	key         string
}

func NewRedisEventCounter(redisClient *redis.Client) EventCounter {
	return &redisEventCounter{
		redisClient: redisClient,
		key:         "ymm:stats:events",
	}
}

func (c *redisEventCounter) Increment(ctx context.Context, eventType string) error {
	if err := c.redisClient.HIncrBy(ctx, c.key, eventType, 1).Err(); err != nil {
		return fmt.Errorf("failed to count event %s: %w", eventType, err)
	}
	return nil
}

func (c *redisEventCounter) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := c.redisClient.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event counts: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for eventType, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse count for %s: %w", eventType, err)
		}
		counts[eventType] = n
	}

	return counts, nil
}
