package fields

import (
	"regexp"
	"strings"
)

var (
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s\-'\.]+$`)
	positionPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-/\+\.\(\)]+$`)
	locationPattern = regexp.MustCompile(`^[a-zA-Z\s,\.\-]+$`)

	unsafeChars = regexp.MustCompile(`[<>"';]`)
)

// IsValidName accepts names built from letters, spaces, hyphens,
// apostrophes and periods, with at least one word and at most 100 runes.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}

	words := strings.Fields(strings.TrimSpace(name))
	return len(words) >= 1 && namePattern.MatchString(name) && len(name) <= 100
}

// IsValidPosition accepts job titles of 2-100 characters built from
// letters, digits, spaces and the punctuation common in titles.
func IsValidPosition(position string) bool {
	if position == "" {
		return false
	}

	return positionPattern.MatchString(position) && len(position) >= 2 && len(position) <= 100
}

// IsValidLocation accepts locations of 2-100 characters built from
// letters, spaces, commas, periods and hyphens.
func IsValidLocation(location string) bool {
	if location == "" {
		return false
	}

	return locationPattern.MatchString(location) && len(location) >= 2 && len(location) <= 100
}

// SanitizeInput strips the characters < > " ' ; from the text and trims
// surrounding whitespace. Applying it twice yields the same result as once.
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}

	return strings.TrimSpace(unsafeChars.ReplaceAllString(text, ""))
}
