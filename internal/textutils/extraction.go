// Package textutils provides the text primitives used to pull charity numbers
// out of free-text organization names.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinNumberDigits is the shortest digit run accepted as a registration number.
const MinNumberDigits = 5

var (
	trailingGroupPattern = regexp.MustCompile(`\(([^(]+?)\)$`)
	separatorPattern     = regexp.MustCompile(`[-./]`)
	digitRunPattern      = regexp.MustCompile(`\d{5,}`)
	digitPattern         = regexp.MustCompile(`\d`)
)

// ExtractTrailingParenthetical returns the lower-cased, trimmed contents of a
// parenthesized group closing the string. The group must not contain a nested
// "(". ok is false when there is no such group or its contents are blank.
func ExtractTrailingParenthetical(s string) (string, bool) {
	matches := trailingGroupPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) < 2 {
		return "", false
	}
	candidate := strings.TrimSpace(lowerKeepingBytes(matches[1]))
	if candidate == "" {
		return "", false
	}
	return candidate, true
}

// lowerKeepingBytes lower-cases s like strings.ToLower but copies invalid
// UTF-8 bytes through unchanged instead of replacing them with U+FFFD.
func lowerKeepingBytes(s string) string {
	if utf8.ValidString(s) {
		return strings.ToLower(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		i += size
	}
	return b.String()
}

// NormalizeSeparators rewrites every "-", "." or "/" as "-".
// Digits and other characters are left untouched.
func NormalizeSeparators(s string) string {
	return separatorPattern.ReplaceAllString(s, "-")
}

// ExtractDigitRun returns the first run of at least MinNumberDigits digits.
func ExtractDigitRun(s string) (string, bool) {
	run := digitRunPattern.FindString(s)
	return run, run != ""
}

// ContainsDigit reports whether s has at least one ASCII digit.
func ContainsDigit(s string) bool {
	return digitPattern.MatchString(s)
}

// HasNumberRun reports whether s holds a digit run long enough to be a number.
func HasNumberRun(s string) bool {
	return digitRunPattern.MatchString(s)
}
