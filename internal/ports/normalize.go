package ports

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName is the identity key for directory records: trimmed,
// whitespace collapsed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " "))
}
