package compose

import (
	"strings"
	"unicode"
)

// knowledgeMarkers are the interrogative and recall cues that flag an input
// as a knowledge query.
var knowledgeMarkers = []string{
	"what", "who", "when", "where", "how", "why", "remember", "know",
}

// stopWords are common tokens excluded from term extraction.
var stopWords = map[string]struct{}{
	"what": {}, "who": {}, "when": {}, "where": {}, "how": {}, "why": {},
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "day": {}, "get": {}, "has": {}, "him": {},
	"his": {}, "man": {}, "new": {}, "now": {}, "old": {}, "see": {},
	"two": {}, "way": {}, "boy": {}, "did": {}, "its": {}, "let": {},
	"put": {}, "say": {}, "she": {}, "too": {}, "use": {},
	"this": {}, "that": {}, "with": {}, "have": {}, "about": {},
	"remember": {}, "know": {},
}

// maxQueryTerms caps how many extracted terms are looked up against the mind
// vault per composition.
const maxQueryTerms = 3

// Classify reports whether input looks like a request to recall stored
// knowledge, and returns up to maxQueryTerms candidate lookup terms. It is a
// pure function: same input, same answer.
func Classify(input string) (bool, []string) {
	lower := strings.ToLower(input)

	isQuery := false
	for _, m := range knowledgeMarkers {
		if strings.Contains(lower, m) {
			isQuery = true
			break
		}
	}
	if !isQuery {
		return false, nil
	}

	var terms []string
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		terms = append(terms, tok)
		if len(terms) == maxQueryTerms {
			break
		}
	}
	return true, terms
}
