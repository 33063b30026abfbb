package ports

import (
	"sort"
	"strings"

	"github.com/ngmaloney/passage-log/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxSuggestions bounds the autocomplete list.
const MaxSuggestions = 6

// newCollator orders port names for display. The directory and the ranker
// share it so both lists agree on accented names.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// Suggest ranks directory names for a partially typed query. An empty query
// yields the MRU list, or the directory in alphabetical order when nothing
// has been used yet. Otherwise names containing the query (case-insensitive)
// are returned, those starting with it first, ties alphabetical.
func Suggest(query string, all []models.PortRecord, recent []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	col := newCollator()

	if q == "" {
		if len(recent) > 0 {
			return uniqueNames(recent)
		}
		names := make([]string, len(all))
		for i, p := range all {
			names[i] = p.Name
		}
		sortAlpha(col, names)
		return uniqueNames(names)
	}

	type match struct {
		name   string
		prefix bool
	}
	var matches []match
	for _, p := range all {
		lower := strings.ToLower(p.Name)
		if strings.Contains(lower, q) {
			matches = append(matches, match{p.Name, strings.HasPrefix(lower, q)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		if c := col.CompareString(matches[i].name, matches[j].name); c != 0 {
			return c < 0
		}
		return matches[i].name < matches[j].name
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return uniqueNames(names)
}

func sortAlpha(col *collate.Collator, names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return col.CompareString(names[i], names[j]) < 0
	})
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, MaxSuggestions)
	for _, n := range names {
		key := NormalizeName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
