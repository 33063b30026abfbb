package ports

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	loneLetterRe = regexp.MustCompile(`^[A-Za-z]$`)
	letterRe     = regexp.MustCompile(`[A-Za-zÀ-ÿ]`)
	separatorRe  = regexp.MustCompile(`[\s\-’'.]`)
	honorificRe  = regexp.MustCompile(`(?i)^st\b`)
)

// IsPlausiblePortName reports whether candidate looks like a finished port
// name rather than a fragment captured mid-typing. Every write into the
// directory from user input goes through this check first.
func IsPlausiblePortName(candidate string) bool {
	s := strings.TrimSpace(candidate)
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if loneLetterRe.MatchString(s) {
		return false
	}
	if len(letterRe.FindAllString(s, -1)) < 2 {
		return false
	}

	if utf8.RuneCountInString(s) < 4 && !separatorRe.MatchString(s) && !honorificRe.MatchString(s) {
		return false
	}
	return true
}
