package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "concierge:sess:"

// RedisStore keeps conversation state as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return models.NewConversationState(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("%w: corrupt state: %v", ErrStateUnavailable, err)
	}
	if state.Slots == nil {
		state.Slots = make(map[string]string)
	}
	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	if err := s.client.Set(ctx, sessionPrefix+sessionID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	return nil
}
