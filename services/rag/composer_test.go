package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"concierge/models"

	"github.com/stretchr/testify/require"
)

type fakeFacts struct {
	hits []models.RetrievalHit
	err  error
}

func (f *fakeFacts) Search(_ context.Context, _ string) ([]models.RetrievalHit, error) {
	return f.hits, f.err
}

type fakeVectors struct {
	hits []models.RetrievalHit
	err  error
}

func (f *fakeVectors) Search(_ context.Context, _ string, _ int) ([]models.RetrievalHit, error) {
	return f.hits, f.err
}

func TestMergeHitsDeduplicatesKeepingHigherScore(t *testing.T) {
	facts := []models.RetrievalHit{
		{ID: "pool", Source: models.SourceFact, Score: 0.5, Text: "Pool open 8-20"},
		{ID: "spa", Source: models.SourceFAQ, Score: 0.9, Text: "Spa on floor 2"},
	}
	vectors := []models.RetrievalHit{
		{ID: "pool", Source: models.SourceFile, Score: 0.8, Text: "Pool open 8-20"},
		{ID: "gym", Source: models.SourceFile, Score: 0.7, Text: "Gym 24/7"},
	}

	merged := MergeHits(facts, vectors)
	require.Len(t, merged, 3)
	require.Equal(t, "spa", merged[0].ID)
	require.Equal(t, "pool", merged[1].ID)
	require.InDelta(t, 0.8, merged[1].Score, 1e-9) // higher score wins
	require.Equal(t, "gym", merged[2].ID)
}

func TestMergeHitsTieBreaksByIdentifier(t *testing.T) {
	hits := []models.RetrievalHit{
		{ID: "b", Score: 0.5},
		{ID: "a", Score: 0.5},
		{ID: "c", Score: 0.5},
	}
	merged := MergeHits(hits)
	require.Equal(t, "a", merged[0].ID)
	require.Equal(t, "b", merged[1].ID)
	require.Equal(t, "c", merged[2].ID)
}

func TestComposeToleratesSingleSourceFailure(t *testing.T) {
	composer := NewComposer(
		&fakeFacts{err: errors.New("mongo down")},
		&fakeVectors{hits: []models.RetrievalHit{{ID: "a", Score: 0.9, Text: "snippet"}}},
		4, 8, 4000,
	)

	rctx := composer.Compose(context.Background(), "anything")
	require.Equal(t, 1, rctx.HitsTotal)
	require.Contains(t, rctx.ContextText, "snippet")
}

func TestComposeBothSourcesFailingYieldsZeroHits(t *testing.T) {
	composer := NewComposer(
		&fakeFacts{err: errors.New("down")},
		&fakeVectors{err: errors.New("down")},
		4, 8, 4000,
	)

	rctx := composer.Compose(context.Background(), "anything")
	require.Zero(t, rctx.HitsTotal)
	require.Empty(t, rctx.ContextText)
	require.Empty(t, rctx.Hits)
}

func TestComposeRespectsSnippetLimit(t *testing.T) {
	var hits []models.RetrievalHit
	for _, id := range []string{"a", "b", "c", "d"} {
		hits = append(hits, models.RetrievalHit{ID: id, Score: 1, Text: "text-" + id})
	}
	composer := NewComposer(&fakeFacts{hits: hits}, &fakeVectors{}, 4, 2, 4000)

	rctx := composer.Compose(context.Background(), "q")
	require.Equal(t, 4, rctx.HitsTotal) // counted before truncation
	require.Equal(t, 2, strings.Count(rctx.ContextText, "- "))
}

func TestComposeDropsWholeSnippetOverCharBudget(t *testing.T) {
	hits := []models.RetrievalHit{
		{ID: "a", Score: 0.9, Text: "short"},
		{ID: "b", Score: 0.8, Text: strings.Repeat("x", 500)},
	}
	composer := NewComposer(&fakeFacts{hits: hits}, &fakeVectors{}, 4, 8, 50)

	rctx := composer.Compose(context.Background(), "q")
	require.Equal(t, 2, rctx.HitsTotal)
	require.Contains(t, rctx.ContextText, "short")
	require.NotContains(t, rctx.ContextText, "xxx")
}
