package chat

import (
	"context"
	"time"

	"concierge/models"
	"concierge/services/booking"
	"concierge/services/intent"
	"concierge/services/llm"
	"concierge/services/rag"
	"concierge/services/session"
	"concierge/utils"

	"go.uber.org/zap"
)

// systemPrompt anchors the LLM to the retrieved context only.
const systemPrompt = "You are the hotel's guest assistant. Answer only from the provided context. " +
	"If the context does not contain the answer, say that you don't have that information. " +
	"Keep answers short and factual."

const llmApologyMsg = "Sorry, I couldn't produce an answer just now. Please try again in a moment."

// Service handles one conversational turn end to end.
type Service interface {
	HandleTurn(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// DefaultChatService wires the intent router, slot-filling engine,
// retrieval composer, guard and LLM into the per-turn pipeline.
type DefaultChatService struct {
	Store    session.Store
	Locker   *session.Locker
	Router   *intent.Router
	Engine   *booking.Engine
	Composer *rag.Composer
	Guard    *rag.Guard
	LLM      llm.Client

	Temperature float64
	MaxTokens   int
	LLMTimeout  time.Duration
}

// HandleTurn serializes the session, routes the message, runs the booking
// or general path and persists the state after the turn's logic has fully
// succeeded. No partial state is written on failure.
func (s *DefaultChatService) HandleTurn(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	unlock := s.Locker.Lock(req.SessionID)
	defer unlock()

	state, err := s.Store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	debug := models.DebugTrace{}
	debug.Intent = s.Router.Classify(state, req.Message)

	var answer, cta string
	switch debug.Intent {
	case intent.BookingQuote:
		res := s.Engine.HandleTurn(ctx, state, req.Message)
		debug.PmsCalled = res.PmsCalled
		debug.OffersCount = len(res.Offers)
		answer, cta = composeBookingAnswer(res)
	default:
		answer = s.handleGeneral(ctx, req.Message, &debug)
	}

	state.TurnCount++
	state.AppendTurn("user", req.Message)
	state.AppendTurn("assistant", answer)
	state.UpdatedAt = time.Now().UTC()
	debug.Slots = state.SlotSnapshot()

	if err := s.Store.Put(ctx, req.SessionID, state); err != nil {
		return nil, err
	}

	return &models.ChatResponse{Answer: answer, CTA: cta, Debug: debug}, nil
}

// handleGeneral runs retrieval, the grounding guard and, when allowed,
// the LLM. Guard evaluation always precedes any LLM invocation.
func (s *DefaultChatService) handleGeneral(ctx context.Context, message string, debug *models.DebugTrace) string {
	logger := utils.GetLogger()

	rctx := s.Composer.Compose(ctx, message)
	debug.HitsTotal = rctx.HitsTotal

	if !s.Guard.Allow(rctx.HitsTotal) {
		debug.GuardTriggered = true
		return s.Guard.Refusal(message)
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.LLMTimeout)
	defer cancel()

	debug.LLMCalled = true
	answer, err := s.LLM.Complete(llmCtx, systemPrompt, rctx.ContextText, message, s.Temperature, s.MaxTokens)
	if err != nil {
		logger.Warn("llm completion failed", zap.Error(err))
		return llmApologyMsg
	}
	// The LLM is the sole author of factual content; its text is returned
	// verbatim so grounding stays auditable.
	return answer
}

// ResetSession clears a session's dialogue state (administrative reset).
func (s *DefaultChatService) ResetSession(ctx context.Context, sessionID string) error {
	unlock := s.Locker.Lock(sessionID)
	defer unlock()
	return s.Store.Delete(ctx, sessionID)
}
