package booking

import (
	"fmt"
	"regexp"
	"strings"
)

// SlotExtractor parses free text into candidate slot values. The map is
// partial and may be empty; values are raw and still subject to the slot
// validators.
type SlotExtractor interface {
	Extract(message string) map[string]string
}

var (
	isoDateRe  = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	dotDateRe  = regexp.MustCompile(`\b(\d{2})[./](\d{2})[./](20\d{2})\b`)
	adultsRe   = regexp.MustCompile(`(?i)\b(\d+)\s+adult`)
	childrenRe = regexp.MustCompile(`(?i)\b(\d+)\s+(child|children|kid)`)
	agesListRe = regexp.MustCompile(`(?i)\bage[sd]?\s*:?\s*((?:\d{1,2}[,\s]+)*\d{1,2})\b`)
	soloNumRe  = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)
	numListRe  = regexp.MustCompile(`^\s*\d{1,2}(?:[,\s]+\d{1,2})+\s*$`)
)

// RegexExtractor is the default pattern-based extractor. It recognizes
// ISO and DD.MM.YYYY dates (first date fills check_in, second check_out),
// "<n> adults", "<n> children" and an ages list.
type RegexExtractor struct{}

func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

func (e *RegexExtractor) Extract(message string) map[string]string {
	out := make(map[string]string)

	dates := isoDateRe.FindAllString(message, -1)
	for _, m := range dotDateRe.FindAllStringSubmatch(message, -1) {
		dates = append(dates, fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1]))
	}
	if len(dates) >= 1 {
		out["check_in"] = dates[0]
	}
	if len(dates) >= 2 {
		out["check_out"] = dates[1]
	}

	if m := adultsRe.FindStringSubmatch(message); m != nil {
		out["adults"] = m[1]
	}
	if m := childrenRe.FindStringSubmatch(message); m != nil {
		out["children"] = m[1]
	}
	if m := agesListRe.FindStringSubmatch(message); m != nil {
		out["children_ages"] = strings.TrimSpace(m[1])
	}

	// A bare number or number list is ambiguous; treat it as the answer to
	// whichever numeric slot is still open. The engine resolves that, so
	// surface it under a neutral key.
	if m := soloNumRe.FindStringSubmatch(message); m != nil && len(out) == 0 {
		out[freeNumberKey] = m[1]
	} else if numListRe.MatchString(message) && len(out) == 0 {
		out[freeNumberListKey] = strings.TrimSpace(message)
	}

	return out
}

// Keys used for context-dependent numeric answers.
const (
	freeNumberKey     = "_number"
	freeNumberListKey = "_number_list"
)
