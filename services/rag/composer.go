package rag

import (
	"context"
	"sort"
	"strings"
	"sync"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// Composer merges fact-store and vector-search hits into one bounded
// retrieval context. Either source failing is tolerated; the surviving
// source's hits are used alone.
type Composer struct {
	facts       FactStore
	vectors     VectorSearch
	topK        int
	maxSnippets int
	charBudget  int
}

func NewComposer(facts FactStore, vectors VectorSearch, topK, maxSnippets, charBudget int) *Composer {
	return &Composer{
		facts:       facts,
		vectors:     vectors,
		topK:        topK,
		maxSnippets: maxSnippets,
		charBudget:  charBudget,
	}
}

// Compose gathers, deduplicates and orders hits, then builds the context
// text under the snippet-count and character budgets. HitsTotal counts
// deduplicated evidence before truncation.
func (c *Composer) Compose(ctx context.Context, query string) models.RetrievalContext {
	logger := utils.GetLogger()

	var (
		wg         sync.WaitGroup
		factHits   []models.RetrievalHit
		vectorHits []models.RetrievalHit
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hits, err := c.facts.Search(ctx, query)
		if err != nil {
			logger.Warn("fact store search failed", zap.Error(err))
			return
		}
		factHits = hits
	}()
	go func() {
		defer wg.Done()
		hits, err := c.vectors.Search(ctx, query, c.topK)
		if err != nil {
			logger.Warn("vector search failed", zap.Error(err))
			return
		}
		vectorHits = hits
	}()
	wg.Wait()

	merged := MergeHits(factHits, vectorHits)
	return models.RetrievalContext{
		Hits:        merged,
		ContextText: c.buildContextText(merged),
		HitsTotal:   len(merged),
	}
}

// MergeHits deduplicates by identifier, keeping the higher score for a
// hit present in both sources, and sorts descending by score with ties
// broken ascending by identifier.
func MergeHits(groups ...[]models.RetrievalHit) []models.RetrievalHit {
	byID := make(map[string]models.RetrievalHit)
	for _, hits := range groups {
		for _, h := range hits {
			if existing, ok := byID[h.ID]; !ok || h.Score > existing.Score {
				byID[h.ID] = h
			}
		}
	}

	merged := make([]models.RetrievalHit, 0, len(byID))
	for _, h := range byID {
		merged = append(merged, h)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// buildContextText appends snippets greedily in merged order. A snippet
// that would exceed the character budget is dropped whole rather than
// truncated mid-sentence.
func (c *Composer) buildContextText(hits []models.RetrievalHit) string {
	var b strings.Builder
	count := 0
	for _, h := range hits {
		if count >= c.maxSnippets {
			break
		}
		line := "- " + h.Text
		extra := len(line)
		if b.Len() > 0 {
			extra++ // newline separator
		}
		if b.Len()+extra > c.charBudget {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		count++
	}
	return b.String()
}
