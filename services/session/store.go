package session

import (
	"context"
	"errors"

	"concierge/models"
)

// ErrStateUnavailable is returned when the backing store cannot be
// reached. No partial mutation is ever visible behind this error.
var ErrStateUnavailable = errors.New("conversation state unavailable")

// Store is keyed persistence for per-session dialogue state. Get never
// fails on a lookup miss; it returns a fresh idle state instead.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationState, error)
	Put(ctx context.Context, sessionID string, state *models.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}
