package rag

import (
	"context"

	"concierge/models"
)

// FactStore searches structured facts and FAQ entries by text match.
type FactStore interface {
	Search(ctx context.Context, text string) ([]models.RetrievalHit, error)
}

// VectorSearch returns the top-k nearest snippets from an embedding index.
type VectorSearch interface {
	Search(ctx context.Context, text string, topK int) ([]models.RetrievalHit, error)
}
