package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"concierge/models"
)

// PmsClient talks to the property-management system's online booking API.
type PmsClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewPmsClient(baseURL, token string) *PmsClient {
	return &PmsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{},
	}
}

type pmsVariantsRequest struct {
	Token    string    `json:"token"`
	DateFrom string    `json:"dateFrom"`
	DateTo   string    `json:"dateTo"`
	Rooms    []pmsRoom `json:"rooms"`
}

type pmsRoom struct {
	Adults   int    `json:"adults"`
	KidsAges string `json:"kidsAges,omitempty"`
}

type pmsVariantsResponse struct {
	Data []pmsVariant `json:"data"`
}

type pmsVariant struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Price              int64  `json:"price"`
	Currency           string `json:"currency"`
	CancellationPolicy string `json:"cancellationPolicy"`
	Available          bool   `json:"available"`
}

// Quote fetches room variants for the given dates and party. The caller
// bounds the context; transport failures map onto the PMS error codes.
func (p *PmsClient) Quote(ctx context.Context, req models.QuoteRequest) ([]models.BookingOffer, error) {
	if p.token == "" {
		return nil, NewPmsError(CodePmsRejected, "PMS token not configured")
	}

	body := pmsVariantsRequest{
		Token:    p.token,
		DateFrom: req.CheckIn,
		DateTo:   req.CheckOut,
		Rooms:    []pmsRoom{{Adults: req.Adults, KidsAges: joinAges(req.ChildrenAges)}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewPmsError(CodePmsRejected, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/getVariants", bytes.NewBuffer(payload))
	if err != nil {
		return nil, NewPmsError(CodePmsRejected, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, NewPmsError(CodePmsTimeout, err.Error())
		}
		return nil, NewPmsError(CodePmsUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, NewPmsError(CodePmsUnavailable, fmt.Sprintf("PMS returned status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, NewPmsError(CodePmsRejected, fmt.Sprintf("PMS returned status %d", resp.StatusCode))
	}

	var parsed pmsVariantsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, NewPmsError(CodePmsUnavailable, "failed to decode PMS response: "+err.Error())
	}

	offers := make([]models.BookingOffer, 0, len(parsed.Data))
	for _, v := range parsed.Data {
		offers = append(offers, models.BookingOffer{
			RoomID:             v.ID,
			RoomName:           v.Name,
			Price:              v.Price,
			Currency:           v.Currency,
			CancellationPolicy: v.CancellationPolicy,
			Available:          v.Available,
		})
	}
	return offers, nil
}

func joinAges(ages []int) string {
	if len(ages) == 0 {
		return ""
	}
	parts := make([]string, len(ages))
	for i, a := range ages {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}
