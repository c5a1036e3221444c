package fields

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var experiencePattern = regexp.MustCompile(`(\d+(\.\d+)?)\s*(years?|yrs?)`)

// ExtractExperience returns the normalized years-of-experience phrase found
// in the text. The matched number is parsed as a float and re-stringified,
// so "5 years" normalizes to "5.0 years" while exactly one year becomes the
// singular "1 year". Fractional values keep their minimal form ("3.5 years").
func ExtractExperience(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	match := experiencePattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return "", false
	}

	years, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return "", false
	}

	if years == 1 {
		return "1 year", true
	}

	return formatYears(years) + " years", true
}

// IsValidExperience reports whether a normalized experience value is within
// the accepted 0-50 year range.
func IsValidExperience(value string) bool {
	if value == "" {
		return false
	}

	stripped := strings.ReplaceAll(value, " years", "")
	stripped = strings.ReplaceAll(stripped, " year", "")

	years, err := strconv.ParseFloat(strings.TrimSpace(stripped), 64)
	if err != nil {
		return false
	}

	return years >= 0 && years <= 50
}

// formatYears keeps a trailing ".0" on integral values so that the
// normalized form is stable ("5.0 years"), while fractional values keep
// their shortest representation.
func formatYears(years float64) string {
	if years == math.Trunc(years) {
		return fmt.Sprintf("%.1f", years)
	}
	return strconv.FormatFloat(years, 'f', -1, 64)
}
