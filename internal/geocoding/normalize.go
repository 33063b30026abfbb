package geocoding

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	genericWordRe = regexp.MustCompile(`(?i)\b(harbour|harbor|marina|port)\b`)
)

// NormalizeQuery reduces a typed port name to its distinctive part for
// gazetteer keys and online query variants. Commas and generic words such
// as "harbour" or "marina" are dropped, so "Poole Harbour" and "poole"
// meet on the same key.
func NormalizeQuery(query string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(query), " ")
	s = strings.ReplaceAll(s, ",", "")
	s = genericWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
