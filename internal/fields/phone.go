package fields

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the region used for phone parsing when none is configured.
const DefaultRegion = "US"

// phonePattern is deliberately permissive: a digit run of 7-14 digits with
// an optional leading plus. It can match non-phone numerics, which is why
// the record manager extracts email and phone before experience and never
// overwrites a field that is already set.
var phonePattern = regexp.MustCompile(`[+]?[1-9]?[0-9]{7,14}`)

// ExtractPhone returns the first phone-shaped digit run in the text.
// Dashes and spaces are removed before matching, so formatted numbers
// like "555-123-4567" come back as a contiguous run.
func ExtractPhone(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	cleaned := strings.ReplaceAll(text, "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	match := phonePattern.FindString(cleaned)
	return match, match != ""
}

// IsValidPhone reports whether the value parses as a valid phone number in
// the given region. Malformed input yields false rather than an error.
func IsValidPhone(phone, region string) bool {
	if phone == "" {
		return false
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return false
	}

	return phonenumbers.IsValidNumber(parsed)
}

// FormatPhone renders a valid phone number in international display format.
// Input that does not parse or validate is returned unchanged.
func FormatPhone(phone, region string) string {
	if phone == "" {
		return phone
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return phone
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return phone
	}

	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
