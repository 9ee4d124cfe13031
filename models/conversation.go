package models

import "time"

// DialogueMode is the current phase of a booking dialogue.
type DialogueMode string

const (
	ModeIdle       DialogueMode = "idle"
	ModeCollecting DialogueMode = "collecting"
	ModeReady      DialogueMode = "ready"
	ModeQuoted     DialogueMode = "quoted"
)

// Slot names collected during a booking dialogue.
const (
	SlotCheckIn      = "check_in"
	SlotCheckOut     = "check_out"
	SlotAdults       = "adults"
	SlotChildren     = "children"
	SlotChildrenAges = "children_ages"
)

// ChatTurn is a single utterance in the session history. Turns are
// append-only and never mutated once written.
type ChatTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the per-session dialogue state. It is owned by the
// session store and mutated only by the slot-filling engine.
type ConversationState struct {
	SessionID   string            `json:"sessionId"`
	Mode        DialogueMode      `json:"mode"`
	Slots       map[string]string `json:"slots"`
	TurnCount   int               `json:"turnCount"`
	PmsFailures int               `json:"pmsFailures"`
	History     []ChatTurn        `json:"history,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// historyWindow bounds the rolling turn history kept with the session.
const historyWindow = 20

// NewConversationState returns a fresh idle state for the given session.
func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		Mode:      ModeIdle,
		Slots:     make(map[string]string),
		UpdatedAt: time.Now().UTC(),
	}
}

// ResetBooking clears the booking dialogue back to idle with empty slots.
// The turn history is kept.
func (s *ConversationState) ResetBooking() {
	s.Mode = ModeIdle
	s.Slots = make(map[string]string)
	s.PmsFailures = 0
}

// AppendTurn records an utterance, trimming the history to its window.
func (s *ConversationState) AppendTurn(role, text string) {
	s.History = append(s.History, ChatTurn{Role: role, Text: text, Timestamp: time.Now().UTC()})
	if len(s.History) > historyWindow {
		s.History = s.History[len(s.History)-historyWindow:]
	}
}

// SlotSnapshot returns a copy of the slot map for the debug trace, so the
// trace cannot alias live state.
func (s *ConversationState) SlotSnapshot() map[string]string {
	snap := make(map[string]string, len(s.Slots))
	for k, v := range s.Slots {
		snap[k] = v
	}
	return snap
}
