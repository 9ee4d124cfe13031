package models

// ChatRequest is the payload coming into /api/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// DebugTrace records the pipeline decisions for one request. It is purely
// observational and computed fresh per turn; fields for an un-exercised
// path keep their zero value.
type DebugTrace struct {
	Intent         string            `json:"intent"`
	Slots          map[string]string `json:"slots"`
	PmsCalled      bool              `json:"pmsCalled"`
	OffersCount    int               `json:"offersCount"`
	HitsTotal      int               `json:"hitsTotal"`
	GuardTriggered bool              `json:"guardTriggered"`
	LLMCalled      bool              `json:"llmCalled"`
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Answer string     `json:"answer"`
	CTA    string     `json:"cta,omitempty"`
	Debug  DebugTrace `json:"debug"`
}
