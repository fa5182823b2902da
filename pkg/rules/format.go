package rules

import (
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// MinPhoneDigits is the minimum digit count of a phone number once
// separators are stripped.
const MinPhoneDigits = 10

// AdultAge is the minimum applicant age in years.
const AdultAge = 18

var (
	phoneChars   = regexp.MustCompile(`^[0-9\s+\-()]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a date input value in loc.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(form.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsAdult reports whether someone born on birth is at least AdultAge years
// old on today. Calendar arithmetic is used so the eighteenth birthday
// itself qualifies.
func IsAdult(birth, today time.Time) bool {
	return !Day(birth).AddDate(AdultAge, 0, 0).After(Day(today))
}

// ValidPhoneChars reports whether value only uses digits, whitespace and
// the separators + - ( ).
func ValidPhoneChars(value string) bool {
	return phoneChars.MatchString(value)
}

// PhoneDigits counts the digits of value.
func PhoneDigits(value string) int {
	return len(nonDigits.ReplaceAllString(value, ""))
}

// ValidPhone combines the character and length checks.
func ValidPhone(value string) bool {
	return ValidPhoneChars(value) && PhoneDigits(value) >= MinPhoneDigits
}

// ValidEmail reports whether value looks like local@domain.tld.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// Blank reports whether value is empty once trimmed.
func Blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
