package rag

import (
	"fmt"
	"strings"
)

const refusalPreamble = "I couldn't find any confirmed information about that in the hotel's knowledge base, " +
	"so I won't guess."

// stopwords excluded from salient-term extraction.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "have": {}, "does": {},
	"your": {}, "about": {}, "there": {}, "hotel": {}, "room": {}, "you": {},
	"are": {}, "can": {}, "how": {}, "any": {},
}

// Guard gates LLM invocation on retrieval sufficiency.
type Guard struct {
	threshold int
}

func NewGuard(threshold int) *Guard {
	return &Guard{threshold: threshold}
}

// Allow reports whether enough deduplicated evidence exists to let the
// LLM answer.
func (g *Guard) Allow(hitsTotal int) bool {
	return hitsTotal >= g.threshold
}

// Refusal builds the fixed-tone refusal plus clarifying questions derived
// deterministically from salient terms of the original query.
func (g *Guard) Refusal(query string) string {
	questions := ClarifyingQuestions(query)
	if len(questions) == 0 {
		return refusalPreamble + " Could you rephrase the question or add more detail?"
	}
	return refusalPreamble + " A few things that would help me:\n" + strings.Join(questions, "\n")
}

// ClarifyingQuestions extracts up to three salient terms and turns each
// into a question. Extraction is keyword-based, not model-generated, so
// the output is stable for a given query.
func ClarifyingQuestions(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == ' ' {
			return r
		}
		return ' '
	}, strings.ToLower(query))

	seen := make(map[string]struct{})
	var questions []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) < 4 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		questions = append(questions, fmt.Sprintf("- What exactly would you like to know about \"%s\"?", word))
		if len(questions) == 3 {
			break
		}
	}
	return questions
}
