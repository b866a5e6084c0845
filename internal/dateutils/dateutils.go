// Package dateutils provides the date parsing and formatting used by the
// register reader and annual-return loaders.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date layouts.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutRegister = "02/01/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutISOTime  = "2006-01-02T15:04:05"
)

// CommonFormats is the list of formats tried by ParseDate, in order.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutISOTime,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	DateLayoutFull,
	DateLayoutRegister,
	"02-01-2006",
	"02.01.2006",
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	patternTokens     = strings.NewReplacer("YYYY", "2006", "YY", "06", "MM", "01", "DD", "02")
)

// LayoutFromPattern converts a human pattern such as "DD/MM/YYYY" into a Go
// time layout. Strings that already look like Go layouts are returned as is.
func LayoutFromPattern(pattern string) string {
	return patternTokens.Replace(pattern)
}

// ParseOptional parses a possibly blank date with layout. A blank value
// returns the zero time without error.
func ParseOptional(value, layout string) (time.Time, error) {
	value = CleanDateString(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match %s", value, layout)
	}
	return t, nil
}

// ParseDate attempts to parse a date string using multiple common formats.
// It returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
// The zero time formats as "".
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
