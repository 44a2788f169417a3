// Package validate holds the field format rules applied before any
// write reaches the store.
package validate

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the entry format for all user-facing dates.
const DateLayout = "02/01/2006"

var (
	phonePattern      = regexp.MustCompile(`^[679]\d{7,8}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{12}$`)
	nonDigits         = regexp.MustCompile(`\D`)
	timePattern       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ParseDate parses a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// NormalizePhone strips every non-digit character.
func NormalizePhone(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// Phone reports whether the normalized number starts with 6, 7 or 9 and
// has 8 or 9 digits in total.
func Phone(s string) bool {
	return phonePattern.MatchString(NormalizePhone(s))
}

// NationalID reports whether the value is empty (the field is optional)
// or exactly 12 digits.
func NationalID(s string) bool {
	if s == "" {
		return true
	}
	return nationalIDPattern.MatchString(s)
}

// TimeOfDay reports whether the value is a HH:MM clock time.
func TimeOfDay(s string) bool {
	return timePattern.MatchString(strings.TrimSpace(s))
}
