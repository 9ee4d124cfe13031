package chat

import (
	"fmt"
	"strings"

	"concierge/services/booking"
)

// bookingCTA is the fixed confirmation prompt shown whenever offers are
// presented.
const bookingCTA = "Would you like me to hold one of these rooms for you?"

// composeBookingAnswer renders the booking path's result. Offers become a
// priced list with cancellation terms; otherwise the engine's prompt or
// degradation message is passed through unchanged.
func composeBookingAnswer(res *booking.Result) (answer, cta string) {
	if len(res.Offers) == 0 {
		return res.Answer, ""
	}

	lines := make([]string, 0, len(res.Offers)+1)
	lines = append(lines, "Here is what I found for your dates:")
	for i, offer := range res.Offers {
		lines = append(lines, fmt.Sprintf("%d. %s - %s. Cancellation: %s",
			i+1, offer.RoomName, formatPrice(offer.Price, offer.Currency), offer.CancellationPolicy))
	}
	return strings.Join(lines, "\n"), bookingCTA
}

// formatPrice renders minor currency units as a decimal amount.
func formatPrice(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, strings.ToUpper(currency))
}
