package models

// QuoteRequest carries the resolved booking slots to the PMS.
type QuoteRequest struct {
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	ChildrenAges []int  `json:"childrenAges,omitempty"`
}

// BookingOffer is a single room offer from the PMS. Offers are produced
// fresh per quote response and never persisted beyond the current turn.
type BookingOffer struct {
	RoomID             string `json:"roomId"`
	RoomName           string `json:"roomName"`
	Price              int64  `json:"price"` // minor currency units
	Currency           string `json:"currency"`
	CancellationPolicy string `json:"cancellationPolicy"`
	Available          bool   `json:"available"`
}
