package booking

import (
	"context"
	"testing"
	"time"

	"concierge/models"

	"github.com/stretchr/testify/require"
)

type fakePms struct {
	offers []models.BookingOffer
	err    error
	calls  int
}

func (f *fakePms) Quote(_ context.Context, _ models.QuoteRequest) ([]models.BookingOffer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func newTestEngine(pms *fakePms) *Engine {
	orch := NewQuoteOrchestrator(pms, time.Second)
	orch.backoff = 0
	return NewEngine(NewRegexExtractor(), orch)
}

func sampleOffers() []models.BookingOffer {
	return []models.BookingOffer{
		{RoomID: "std-1", RoomName: "Standard", Price: 12000, Currency: "EUR", CancellationPolicy: "free until 24h", Available: true},
	}
}

func TestEngineCollectsSlotsAcrossTurns(t *testing.T) {
	pms := &fakePms{offers: sampleOffers()}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")
	ctx := context.Background()

	// Turn 1: booking intent with check-in only.
	res := engine.HandleTurn(ctx, state, "book a room from 2026-07-01")
	require.Equal(t, models.ModeCollecting, state.Mode)
	require.Contains(t, res.Answer, "check-out")
	require.False(t, res.PmsCalled)
	require.Zero(t, pms.calls)

	// Turn 2: check-out.
	res = engine.HandleTurn(ctx, state, "2026-07-05")
	require.Equal(t, models.ModeCollecting, state.Mode)
	require.Contains(t, res.Answer, "adults")
	require.Zero(t, pms.calls)

	// Turn 3: adults completes the required set; the quote fires once.
	res = engine.HandleTurn(ctx, state, "2 adults")
	require.Equal(t, models.ModeQuoted, state.Mode)
	require.True(t, res.PmsCalled)
	require.Len(t, res.Offers, 1)
	require.Equal(t, 1, pms.calls)
}

func TestEngineQuotedStateDoesNotRequoteUnchanged(t *testing.T) {
	pms := &fakePms{offers: sampleOffers()}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")
	ctx := context.Background()

	engine.HandleTurn(ctx, state, "book 2026-07-01 to 2026-07-05 for 2 adults")
	require.Equal(t, 1, pms.calls)
	require.Equal(t, models.ModeQuoted, state.Mode)

	// Same complete slot set again: no second call.
	res := engine.HandleTurn(ctx, state, "book 2026-07-01 to 2026-07-05 for 2 adults")
	require.Equal(t, 1, pms.calls)
	require.False(t, res.PmsCalled)
	require.NotEmpty(t, res.Answer)

	// A changed date re-quotes.
	res = engine.HandleTurn(ctx, state, "book 2026-07-02 to 2026-07-05 for 2 adults")
	require.Equal(t, 2, pms.calls)
	require.True(t, res.PmsCalled)
}

func TestEngineValidationFailureKeepsSlot(t *testing.T) {
	pms := &fakePms{offers: sampleOffers()}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")
	state.Mode = models.ModeCollecting
	state.Slots[models.SlotCheckIn] = "2026-07-01"
	state.Slots[models.SlotCheckOut] = "2026-07-05"

	res := engine.HandleTurn(context.Background(), state, "0")
	require.Contains(t, res.Answer, "adults")
	require.Empty(t, state.Slots[models.SlotAdults])
	require.Zero(t, pms.calls)
}

func TestEngineCheckOutMustFollowCheckIn(t *testing.T) {
	pms := &fakePms{offers: sampleOffers()}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")

	res := engine.HandleTurn(context.Background(), state, "book 2026-07-05 to 2026-07-01")
	require.Contains(t, res.Answer, "check-out date must be after")
	require.Empty(t, state.Slots[models.SlotCheckOut])
	require.Equal(t, "2026-07-05", state.Slots[models.SlotCheckIn])
}

func TestEngineChildrenAgesMustMatchChildrenCount(t *testing.T) {
	pms := &fakePms{offers: sampleOffers()}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")
	state.Mode = models.ModeCollecting
	state.Slots = map[string]string{
		models.SlotCheckIn:  "2026-07-01",
		models.SlotCheckOut: "2026-07-05",
		models.SlotAdults:   "2",
		models.SlotChildren: "2",
	}
	ctx := context.Background()

	// Two children but only one age: re-prompt, no quote.
	res := engine.HandleTurn(ctx, state, "ages 3")
	require.Contains(t, res.Answer, "one age per child")
	require.Empty(t, state.Slots[models.SlotChildrenAges])
	require.False(t, res.PmsCalled)
	require.Zero(t, pms.calls)

	// Matching count proceeds to the quote.
	res = engine.HandleTurn(ctx, state, "ages 3, 7")
	require.Equal(t, "3,7", state.Slots[models.SlotChildrenAges])
	require.True(t, res.PmsCalled)
}

func TestEngineDegradesAfterRepeatedPmsFailures(t *testing.T) {
	pms := &fakePms{err: NewPmsError(CodePmsRejected, "boom")}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")
	ctx := context.Background()

	res := engine.HandleTurn(ctx, state, "book 2026-07-01 to 2026-07-05 for 2 adults")
	require.True(t, res.PmsCalled)
	require.Equal(t, models.ModeReady, state.Mode)
	require.Equal(t, 1, state.PmsFailures)
	require.Equal(t, pmsRetryMsg, res.Answer)

	engine.HandleTurn(ctx, state, "try again")
	require.Equal(t, 2, state.PmsFailures)

	res = engine.HandleTurn(ctx, state, "try again")
	require.Equal(t, pmsDegradedMsg, res.Answer)
	// Counter resets but the collected slots survive.
	require.Zero(t, state.PmsFailures)
	require.Equal(t, "2026-07-01", state.Slots[models.SlotCheckIn])
	require.Equal(t, models.ModeReady, state.Mode)
}

func TestEngineNoAvailability(t *testing.T) {
	pms := &fakePms{offers: nil}
	engine := newTestEngine(pms)
	state := models.NewConversationState("s1")

	res := engine.HandleTurn(context.Background(), state, "book 2026-07-01 to 2026-07-05 for 2 adults")
	require.True(t, res.PmsCalled)
	require.Empty(t, res.Offers)
	require.Equal(t, noAvailabilityMsg, res.Answer)
	require.Equal(t, models.ModeQuoted, state.Mode)
}
