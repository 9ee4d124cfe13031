package models

// Retrieval hit source tags.
const (
	SourceFact = "fact"
	SourceFAQ  = "faq"
	SourceFile = "file"
)

// RetrievalHit is one piece of evidence from the fact store or the vector
// index. ID is stable across sources and used for deduplication.
type RetrievalHit struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// RetrievalContext is the merged, budgeted retrieval result. HitsTotal is
// the deduplicated hit count before any truncation, i.e. evidence
// available rather than evidence shown.
type RetrievalContext struct {
	Hits        []RetrievalHit `json:"hits"`
	ContextText string         `json:"contextText"`
	HitsTotal   int            `json:"hitsTotal"`
}
