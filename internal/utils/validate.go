package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether s has the shape local@domain.tld.  It checks
// shape only; deliverability is never verified.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Blank reports whether any of the values is empty after trimming spaces.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// TooLong reports whether s has more than max characters.  Characters, not
// bytes, match how VARCHAR(n) is sized.
func TooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}
