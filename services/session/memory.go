package session

import (
	"context"
	"encoding/json"
	"sync"

	"concierge/models"
)

// MemoryStore is a map-backed Store. It satisfies the same contract as
// the Redis store and is used in tests and single-node development.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*models.ConversationState, error) {
	s.mu.RLock()
	raw, ok := s.states[sessionID]
	s.mu.RUnlock()
	if !ok {
		return models.NewConversationState(sessionID), nil
	}
	var state models.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, ErrStateUnavailable
	}
	if state.Slots == nil {
		state.Slots = make(map[string]string)
	}
	return &state, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, state *models.ConversationState) error {
	// Serialize through JSON so callers never share memory with the store,
	// matching the Redis store's copy semantics.
	b, err := json.Marshal(state)
	if err != nil {
		return ErrStateUnavailable
	}
	s.mu.Lock()
	s.states[sessionID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
