package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"concierge/models"
	"concierge/services/booking"
	"concierge/services/intent"
	"concierge/services/llm"
	"concierge/services/rag"
	"concierge/services/session"

	"github.com/stretchr/testify/require"
)

type stubFacts struct {
	hits []models.RetrievalHit
}

func (s *stubFacts) Search(_ context.Context, _ string) ([]models.RetrievalHit, error) {
	return s.hits, nil
}

type stubVectors struct {
	hits []models.RetrievalHit
}

func (s *stubVectors) Search(_ context.Context, _ string, _ int) ([]models.RetrievalHit, error) {
	return s.hits, nil
}

type stubPms struct {
	offers []models.BookingOffer
	calls  int
}

func (s *stubPms) Quote(_ context.Context, _ models.QuoteRequest) ([]models.BookingOffer, error) {
	s.calls++
	return s.offers, nil
}

type failingLLM struct{}

func (failingLLM) Complete(_ context.Context, _, _, _ string, _ float64, _ int) (string, error) {
	return "", errors.New("model overloaded")
}

func hitSet(n int) []models.RetrievalHit {
	hits := make([]models.RetrievalHit, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, models.RetrievalHit{
			ID:     fmt.Sprintf("hit-%d", i),
			Source: models.SourceFact,
			Score:  1 - float64(i)/10,
			Text:   fmt.Sprintf("fact number %d", i),
		})
	}
	return hits
}

func newTestService(pms *stubPms, factHits, vectorHits []models.RetrievalHit, client llm.Client) *DefaultChatService {
	orch := booking.NewQuoteOrchestrator(pms, time.Second)
	return &DefaultChatService{
		Store:       session.NewMemoryStore(),
		Locker:      session.NewLocker(),
		Router:      intent.NewRouter(),
		Engine:      booking.NewEngine(booking.NewRegexExtractor(), orch),
		Composer:    rag.NewComposer(&stubFacts{hits: factHits}, &stubVectors{hits: vectorHits}, 4, 8, 4000),
		Guard:       rag.NewGuard(3),
		LLM:         client,
		Temperature: 0.1,
		MaxTokens:   350,
		LLMTimeout:  time.Second,
	}
}

func TestGeneralTurnDryRunIsStable(t *testing.T) {
	svc := newTestService(&stubPms{}, hitSet(5), nil, llm.NewDryRunClient())
	ctx := context.Background()

	first, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "tell me about breakfast times"})
	require.NoError(t, err)
	require.Equal(t, llm.DryRunPlaceholder, first.Answer)
	require.Equal(t, "general", first.Debug.Intent)
	require.Equal(t, 5, first.Debug.HitsTotal)
	require.False(t, first.Debug.GuardTriggered)
	require.True(t, first.Debug.LLMCalled)
	require.False(t, first.Debug.PmsCalled)

	second, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "tell me about breakfast times"})
	require.NoError(t, err)
	require.Equal(t, first.Answer, second.Answer)
}

func TestGuardBlocksLLMOnThinEvidence(t *testing.T) {
	svc := newTestService(&stubPms{}, hitSet(2), nil, llm.NewDryRunClient())

	resp, err := svc.HandleTurn(context.Background(), models.ChatRequest{SessionID: "s1", Message: "does the rooftop bar serve cocktails"})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Debug.HitsTotal)
	require.True(t, resp.Debug.GuardTriggered)
	require.False(t, resp.Debug.LLMCalled)
	require.Contains(t, resp.Answer, "won't guess")
}

func TestGuardAllowsLLMOnSufficientEvidence(t *testing.T) {
	svc := newTestService(&stubPms{}, hitSet(5), nil, llm.NewDryRunClient())

	resp, err := svc.HandleTurn(context.Background(), models.ChatRequest{SessionID: "s1", Message: "does the rooftop bar serve cocktails"})
	require.NoError(t, err)
	require.False(t, resp.Debug.GuardTriggered)
	require.True(t, resp.Debug.LLMCalled)
}

func TestLLMFailureYieldsApologyWithAccurateDebug(t *testing.T) {
	svc := newTestService(&stubPms{}, hitSet(5), nil, failingLLM{})

	resp, err := svc.HandleTurn(context.Background(), models.ChatRequest{SessionID: "s1", Message: "is late checkout possible"})
	require.NoError(t, err)
	require.Equal(t, llmApologyMsg, resp.Answer)
	require.True(t, resp.Debug.LLMCalled)
	require.False(t, resp.Debug.GuardTriggered)
}

func TestBookingDialogueEndToEnd(t *testing.T) {
	pms := &stubPms{offers: []models.BookingOffer{
		{RoomID: "dbl-2", RoomName: "Double", Price: 15000, Currency: "EUR", CancellationPolicy: "free until 48h"},
		{RoomID: "std-1", RoomName: "Standard", Price: 12000, Currency: "EUR", CancellationPolicy: "free until 24h"},
	}}
	svc := newTestService(pms, hitSet(5), nil, llm.NewDryRunClient())
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "I'd like to book a room"})
	require.NoError(t, err)
	require.Equal(t, "booking_quote", resp.Debug.Intent)
	require.False(t, resp.Debug.PmsCalled)
	require.Contains(t, resp.Answer, "check-in")

	// Follow-up without booking keywords stays in the flow.
	resp, err = svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "2026-07-01 to 2026-07-05"})
	require.NoError(t, err)
	require.Equal(t, "booking_quote", resp.Debug.Intent)
	require.Contains(t, resp.Answer, "adults")
	require.Equal(t, "2026-07-01", resp.Debug.Slots[models.SlotCheckIn])

	resp, err = svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "2 adults"})
	require.NoError(t, err)
	require.True(t, resp.Debug.PmsCalled)
	require.Equal(t, 2, resp.Debug.OffersCount)
	require.Equal(t, 1, pms.calls)
	// Offers are sorted ascending by price.
	require.Contains(t, resp.Answer, "1. Standard - 120.00 EUR")
	require.Equal(t, bookingCTA, resp.CTA)
	// Booking path leaves retrieval fields at zero.
	require.Zero(t, resp.Debug.HitsTotal)
	require.False(t, resp.Debug.LLMCalled)
}

func TestSessionsDoNotShareSlotState(t *testing.T) {
	svc := newTestService(&stubPms{offers: nil}, hitSet(5), nil, llm.NewDryRunClient())
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "a", Message: "book from 2026-07-01"})
	require.NoError(t, err)

	resp, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "b", Message: "what about breakfast"})
	require.NoError(t, err)
	require.Equal(t, "general", resp.Debug.Intent)
	require.Empty(t, resp.Debug.Slots)
}

func TestResetSessionClearsDialogue(t *testing.T) {
	svc := newTestService(&stubPms{}, hitSet(5), nil, llm.NewDryRunClient())
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "book from 2026-07-01 to 2026-07-05"})
	require.NoError(t, err)
	require.NoError(t, svc.ResetSession(ctx, "s1"))

	resp, err := svc.HandleTurn(ctx, models.ChatRequest{SessionID: "s1", Message: "hello again"})
	require.NoError(t, err)
	require.Equal(t, "general", resp.Debug.Intent)
	require.Empty(t, resp.Debug.Slots)
}
