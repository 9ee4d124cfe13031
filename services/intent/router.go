package intent

import (
	"regexp"

	"concierge/models"
)

// Intent labels produced by the router.
const (
	BookingQuote = "booking_quote"
	General      = "general"
)

// Rule maps a message pattern to an intent. Rules are evaluated in order;
// the first match wins.
type Rule struct {
	Pattern *regexp.Regexp
	Intent  string
}

// defaultRules covers booking-quote trigger phrasing. Everything that
// matches nothing falls through to General.
var defaultRules = []Rule{
	{regexp.MustCompile(`(?i)\bbook(ing)?\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\breserv(e|ation)\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\broom(s)? (for|on|available)\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\bavailab(le|ility)\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\bcheck[- ]?in\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\bquote\b`), BookingQuote},
	{regexp.MustCompile(`(?i)\bstay (from|between)\b`), BookingQuote},
}

// cancelRe aborts an in-progress booking dialogue. Whole words only:
// asking about a "cancellation policy" is a question, not a reset.
var cancelRe = regexp.MustCompile(`(?i)\b(cancel|never ?mind|forget it|stop booking|start over)\b`)

// Router classifies each turn, honoring sticky in-progress booking flows.
type Router struct {
	rules []Rule
}

func NewRouter(rules ...Rule) *Router {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Router{rules: rules}
}

// Classify returns the intent for the message given the session state.
// A cancellation keyword resets the state to idle with empty slots before
// classification proceeds. While a booking dialogue is collecting or
// ready, the booking intent is sticky: a follow-up sentence without any
// booking keyword stays in the flow instead of derailing it.
func (r *Router) Classify(state *models.ConversationState, message string) string {
	if cancelRe.MatchString(message) {
		state.ResetBooking()
		return r.match(message)
	}

	if state.Mode == models.ModeCollecting || state.Mode == models.ModeReady {
		return BookingQuote
	}

	return r.match(message)
}

func (r *Router) match(message string) string {
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(message) {
			return rule.Intent
		}
	}
	return General
}
