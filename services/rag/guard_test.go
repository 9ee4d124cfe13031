package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardThreshold(t *testing.T) {
	guard := NewGuard(3)

	require.False(t, guard.Allow(0))
	require.False(t, guard.Allow(2))
	require.True(t, guard.Allow(3))
	require.True(t, guard.Allow(5))
}

func TestRefusalIsDeterministic(t *testing.T) {
	guard := NewGuard(3)

	first := guard.Refusal("do you allow pets on the terrace")
	second := guard.Refusal("do you allow pets on the terrace")
	require.Equal(t, first, second)
	require.Contains(t, first, "won't guess")
	require.Contains(t, first, "pets")
}

func TestClarifyingQuestionsExtractSalientTerms(t *testing.T) {
	questions := ClarifyingQuestions("do you allow pets on the terrace")
	require.Len(t, questions, 3)
	require.Contains(t, questions[0], "allow")
	require.Contains(t, questions[1], "pets")
	require.Contains(t, questions[2], "terrace")
}

func TestClarifyingQuestionsSkipStopwordsAndShortWords(t *testing.T) {
	questions := ClarifyingQuestions("what about the spa")
	// "what", "about", "the" are stopwords and "spa" is too short.
	require.Empty(t, questions)

	refusal := NewGuard(3).Refusal("what about the spa")
	require.Contains(t, refusal, "rephrase")
}
