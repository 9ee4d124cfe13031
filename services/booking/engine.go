package booking

import (
	"context"
	"fmt"
	"strconv"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// Result is the outcome of one booking-dialogue turn. When Offers is
// non-empty the response composer renders them; otherwise Answer carries
// a prompt, validation message or degradation notice verbatim.
type Result struct {
	Answer    string
	Offers    []models.BookingOffer
	PmsCalled bool
}

const (
	maxPmsFailures = 3

	noAvailabilityMsg = "Unfortunately there are no rooms available for those dates. You could try different dates."
	pmsRetryMsg       = "I couldn't reach the booking system just now. Please try again in a moment."
	pmsDegradedMsg    = "The booking system keeps failing, so I can't fetch offers right now. " +
		"Please contact our reception directly and they will complete the booking for you. Your details are saved."
	quoteUnchangedMsg = "I already have offers for exactly those details. " +
		"Say which room you'd like to confirm, or give me new dates to search again."
)

// Engine is the finite-state controller for booking slot collection.
// It is the only component that mutates ConversationState.
type Engine struct {
	extractor    SlotExtractor
	orchestrator *QuoteOrchestrator
}

func NewEngine(extractor SlotExtractor, orchestrator *QuoteOrchestrator) *Engine {
	return &Engine{extractor: extractor, orchestrator: orchestrator}
}

// HandleTurn advances the dialogue state machine for one booking-intent
// turn and returns what to tell the user. State mutations happen on the
// in-memory copy only; the caller persists it after the turn succeeds.
func (e *Engine) HandleTurn(ctx context.Context, state *models.ConversationState, message string) *Result {
	logger := utils.GetLogger()

	if state.Mode == models.ModeIdle {
		state.Mode = models.ModeCollecting
		state.Slots = make(map[string]string)
	}

	candidates := e.extractor.Extract(message)
	resolveContextual(candidates, state.Slots)

	changed := false
	for _, spec := range slotSpecs {
		raw, ok := candidates[spec.Name]
		if !ok {
			continue
		}
		value, verr := spec.Validate(raw)
		if verr != nil {
			// Bad value: leave the slot as it was and re-prompt it.
			return &Result{Answer: verr.Message}
		}
		// An extracted value counts as the user restating the slot, so an
		// existing value may be replaced here and nowhere else.
		if state.Slots[spec.Name] != value {
			changed = true
		}
		state.Slots[spec.Name] = value
	}

	if msg := checkDateOrder(state.Slots); msg != "" {
		delete(state.Slots, models.SlotCheckOut)
		return &Result{Answer: msg}
	}

	if msg := checkChildrenAges(state.Slots); msg != "" {
		delete(state.Slots, models.SlotChildrenAges)
		return &Result{Answer: msg}
	}

	if missing := firstMissingRequired(state.Slots); missing != nil {
		state.Mode = models.ModeCollecting
		return &Result{Answer: missing.Prompt}
	}

	// All required slots present. A repeat of an already quoted slot set
	// must not trigger a second booking call.
	if state.Mode == models.ModeQuoted && !changed {
		return &Result{Answer: quoteUnchangedMsg}
	}

	state.Mode = models.ModeReady
	req := quoteRequestFromSlots(state.Slots)
	offers, err := e.orchestrator.Quote(ctx, req)
	if err != nil {
		state.PmsFailures++
		logger.Warn("booking quote failed",
			zap.String("sessionId", state.SessionID),
			zap.Int("failures", state.PmsFailures),
			zap.Error(err))
		if state.PmsFailures >= maxPmsFailures {
			state.PmsFailures = 0
			return &Result{Answer: pmsDegradedMsg, PmsCalled: true}
		}
		return &Result{Answer: pmsRetryMsg, PmsCalled: true}
	}

	state.Mode = models.ModeQuoted
	state.PmsFailures = 0
	if len(offers) == 0 {
		return &Result{Answer: noAvailabilityMsg, PmsCalled: true}
	}
	return &Result{Offers: offers, PmsCalled: true}
}

// resolveContextual resolves candidates whose meaning depends on which
// slots are still open: a lone date answers the open date slot and a bare
// number answers the open numeric slot, in required-first priority order.
func resolveContextual(candidates, slots map[string]string) {
	if in, ok := candidates[models.SlotCheckIn]; ok {
		if _, hasOut := candidates[models.SlotCheckOut]; !hasOut &&
			slots[models.SlotCheckIn] != "" && slots[models.SlotCheckOut] == "" {
			delete(candidates, models.SlotCheckIn)
			candidates[models.SlotCheckOut] = in
		}
	}
	if n, ok := candidates[freeNumberKey]; ok {
		delete(candidates, freeNumberKey)
		switch {
		case slots[models.SlotAdults] == "":
			candidates[models.SlotAdults] = n
		case slots[models.SlotChildren] == "":
			candidates[models.SlotChildren] = n
		}
	}
	if list, ok := candidates[freeNumberListKey]; ok {
		delete(candidates, freeNumberListKey)
		if slots[models.SlotChildrenAges] == "" {
			candidates[models.SlotChildrenAges] = list
		}
	}
}

func checkDateOrder(slots map[string]string) string {
	in, out := slots[models.SlotCheckIn], slots[models.SlotCheckOut]
	if in == "" || out == "" {
		return ""
	}
	if out <= in { // ISO dates compare lexicographically
		return "The check-out date must be after the check-in date. Please give me a later check-out date."
	}
	return ""
}

// checkChildrenAges cross-checks the two children slots: when both are
// filled, the ages list must have one entry per child.
func checkChildrenAges(slots map[string]string) string {
	count, ages := slots[models.SlotChildren], slots[models.SlotChildrenAges]
	if count == "" || ages == "" {
		return ""
	}
	n, _ := strconv.Atoi(count)
	if got := len(parseAges(ages)); got != n {
		return fmt.Sprintf("You mentioned %d children but listed %d ages. Please list one age per child, separated by commas.", n, got)
	}
	return ""
}

func firstMissingRequired(slots map[string]string) *SlotSpec {
	for i := range slotSpecs {
		spec := &slotSpecs[i]
		if spec.Required && slots[spec.Name] == "" {
			return spec
		}
	}
	return nil
}

func quoteRequestFromSlots(slots map[string]string) models.QuoteRequest {
	adults, _ := strconv.Atoi(slots[models.SlotAdults])
	children, _ := strconv.Atoi(slots[models.SlotChildren])
	return models.QuoteRequest{
		CheckIn:      slots[models.SlotCheckIn],
		CheckOut:     slots[models.SlotCheckOut],
		Adults:       adults,
		Children:     children,
		ChildrenAges: parseAges(slots[models.SlotChildrenAges]),
	}
}
