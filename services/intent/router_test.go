package intent

import (
	"testing"

	"concierge/models"

	"github.com/stretchr/testify/require"
)

func TestClassifyKeywordMatch(t *testing.T) {
	router := NewRouter()
	state := models.NewConversationState("s1")

	cases := []struct {
		message string
		want    string
	}{
		{"I want to book a room for next weekend", BookingQuote},
		{"Do you have rooms available in July?", BookingQuote},
		{"Can I get a quote for two nights?", BookingQuote},
		{"What time is breakfast served?", General},
		{"Is there a spa?", General},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, router.Classify(state, tc.message), "message: %s", tc.message)
	}
}

func TestClassifyStickyBookingFlow(t *testing.T) {
	router := NewRouter()
	state := models.NewConversationState("s1")
	state.Mode = models.ModeCollecting

	// No booking keyword, but the dialogue is in progress.
	require.Equal(t, BookingQuote, router.Classify(state, "2026-07-01"))

	state.Mode = models.ModeReady
	require.Equal(t, BookingQuote, router.Classify(state, "actually make it three of us"))

	// Quoted mode is not sticky.
	state.Mode = models.ModeQuoted
	require.Equal(t, General, router.Classify(state, "what about parking?"))
}

func TestClassifyCancellationResetsState(t *testing.T) {
	router := NewRouter()
	state := models.NewConversationState("s1")
	state.Mode = models.ModeCollecting
	state.Slots[models.SlotCheckIn] = "2026-07-01"
	state.PmsFailures = 2

	got := router.Classify(state, "never mind, cancel that")
	require.Equal(t, General, got)
	require.Equal(t, models.ModeIdle, state.Mode)
	require.Empty(t, state.Slots)
	require.Zero(t, state.PmsFailures)
}

func TestClassifyCancellationPolicyQuestionIsNotCancellation(t *testing.T) {
	router := NewRouter()
	state := models.NewConversationState("s1")
	state.Mode = models.ModeCollecting
	state.Slots[models.SlotCheckIn] = "2026-07-01"
	state.Slots[models.SlotCheckOut] = "2026-07-05"

	// "cancellation" contains "cancel" but is a question, not a reset.
	got := router.Classify(state, "what is the cancellation policy?")
	require.Equal(t, BookingQuote, got)
	require.Equal(t, models.ModeCollecting, state.Mode)
	require.Equal(t, "2026-07-01", state.Slots[models.SlotCheckIn])
	require.Equal(t, "2026-07-05", state.Slots[models.SlotCheckOut])

	// "cancelled" mentioned in passing does not reset either.
	require.Equal(t, BookingQuote, router.Classify(state, "last time my stay got cancelled, will that happen again?"))
	require.Equal(t, "2026-07-01", state.Slots[models.SlotCheckIn])
}

func TestClassifyCustomRuleTable(t *testing.T) {
	router := NewRouter(defaultRules...)
	state := models.NewConversationState("s1")
	require.Equal(t, BookingQuote, router.Classify(state, "Reserve a double please"))
}
