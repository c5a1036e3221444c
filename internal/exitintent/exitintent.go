// Package exitintent classifies a candidate utterance as conversation
// terminating or not. Detection is a layered match against fixed sets,
// preferring precision over recall: a false positive ends the interview
// early, so no stemming or fuzzy matching is attempted.
package exitintent

import (
	"regexp"
	"strings"
)

// exitKeywords are matched exactly against the whole normalized utterance
// and against each cleaned token.
var exitKeywords = map[string]struct{}{
	"quit":    {},
	"exit":    {},
	"bye":     {},
	"goodbye": {},
	"stop":    {},
	"end":     {},
	"finish":  {},
	"done":    {},
}

// exitPhrases are matched as substrings of the normalized utterance.
var exitPhrases = []string{
	"i want to quit",
	"i want to exit",
	"i'm done",
	"that's all",
	"end interview",
	"finish interview",
	"i have to go",
	"gotta go",
}

var nonWord = regexp.MustCompile(`[^\w]`)

// IsExit reports whether the utterance signals the end of the interview.
// Empty input is never an exit.
func IsExit(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	if _, ok := exitKeywords[normalized]; ok {
		return true
	}

	for _, word := range strings.Fields(normalized) {
		clean := nonWord.ReplaceAllString(word, "")
		if _, ok := exitKeywords[clean]; ok {
			return true
		}
	}

	for _, phrase := range exitPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}

	return false
}
