// Package fields contains the per-field extractors and validators used to
// pull structured candidate data out of free-text utterances. Extractors
// return the first match and report absence instead of failing; validators
// are pure predicates and return false on empty input.
package fields

import (
	"regexp"
	"strings"
)

var (
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	emailValidPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// ExtractEmail returns the first email-shaped token found in the text.
// The match is returned unmodified; use NormalizeEmail for canonical form.
func ExtractEmail(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	match := emailPattern.FindString(text)
	return match, match != ""
}

// IsValidEmail reports whether the value starts with a well-formed email.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailValidPattern.MatchString(email)
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
