package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"concierge/models"
)

// maxOffers caps how many offers are presented to the user.
const maxOffers = 3

// BookingAPI is the property-management system consumed by the
// orchestrator. Failures are *PmsError values.
type BookingAPI interface {
	Quote(ctx context.Context, req models.QuoteRequest) ([]models.BookingOffer, error)
}

// QuoteOrchestrator invokes the booking API with a bounded timeout and at
// most one retry with backoff, then ranks and trims the offers.
type QuoteOrchestrator struct {
	api     BookingAPI
	timeout time.Duration
	backoff time.Duration
}

func NewQuoteOrchestrator(api BookingAPI, timeout time.Duration) *QuoteOrchestrator {
	return &QuoteOrchestrator{api: api, timeout: timeout, backoff: 500 * time.Millisecond}
}

// Quote fetches offers for the resolved slots. On success the result is
// sorted ascending by price with ties broken by room identifier, capped
// at maxOffers.
func (o *QuoteOrchestrator) Quote(ctx context.Context, req models.QuoteRequest) ([]models.BookingOffer, error) {
	offers, err := o.callOnce(ctx, req)
	if err != nil && retryable(err) {
		select {
		case <-time.After(o.backoff):
		case <-ctx.Done():
			return nil, NewPmsError(CodePmsTimeout, ctx.Err().Error())
		}
		offers, err = o.callOnce(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return RankOffers(offers), nil
}

func (o *QuoteOrchestrator) callOnce(ctx context.Context, req models.QuoteRequest) ([]models.BookingOffer, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	offers, err := o.api.Quote(callCtx, req)
	if err != nil {
		var perr *PmsError
		if errors.As(err, &perr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, NewPmsError(CodePmsTimeout, err.Error())
		}
		return nil, NewPmsError(CodePmsUnavailable, err.Error())
	}
	return offers, nil
}

// retryable reports whether a second attempt makes sense. A rejection is
// final; timeouts and transport failures get one more try.
func retryable(err error) bool {
	var perr *PmsError
	if errors.As(err, &perr) {
		return perr.Code != CodePmsRejected
	}
	return false
}

// RankOffers sorts ascending by price, breaking ties by room identifier,
// and keeps the cheapest maxOffers entries.
func RankOffers(offers []models.BookingOffer) []models.BookingOffer {
	ranked := make([]models.BookingOffer, len(offers))
	copy(ranked, offers)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].RoomID < ranked[j].RoomID
	})
	if len(ranked) > maxOffers {
		ranked = ranked[:maxOffers]
	}
	return ranked
}
