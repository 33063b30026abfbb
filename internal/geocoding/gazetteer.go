package geocoding

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SourceBuiltin marks entries compiled into the binary
const SourceBuiltin = "builtin"

// Entry is a known harbour position keyed by its normalized name
type Entry struct {
	Key    string
	Name   string
	Lat    float64
	Lon    float64
	Source string
}

var builtinEntries = []Entry{
	{Key: "lymington", Name: "Lymington", Lat: 50.758, Lon: -1.540},
	{Key: "cowes", Name: "Cowes", Lat: 50.763, Lon: -1.297},
	{Key: "yarmouth", Name: "Yarmouth", Lat: 50.705, Lon: -1.498},
	{Key: "portsmouth", Name: "Portsmouth", Lat: 50.802, Lon: -1.109},
	{Key: "gosport", Name: "Gosport", Lat: 50.795, Lon: -1.125},
	{Key: "solent", Name: "Port Solent", Lat: 50.845, Lon: -1.138},
	{Key: "poole", Name: "Poole", Lat: 50.714, Lon: -1.985},
	{Key: "weymouth", Name: "Weymouth", Lat: 50.613, Lon: -2.455},
	{Key: "dartmouth", Name: "Dartmouth", Lat: 50.351, Lon: -3.579},
	{Key: "salcombe", Name: "Salcombe", Lat: 50.237, Lon: -3.769},
	{Key: "plymouth", Name: "Plymouth", Lat: 50.366, Lon: -4.143},
	{Key: "falmouth", Name: "Falmouth", Lat: 50.155, Lon: -5.073},
	{Key: "fowey", Name: "Fowey", Lat: 50.336, Lon: -4.638},
	{Key: "padstow", Name: "Padstow", Lat: 50.544, Lon: -4.936},
	{Key: "st vaast", Name: "St Vaast", Lat: 49.590, Lon: -1.267},
	{Key: "cherbourg", Name: "Cherbourg", Lat: 49.642, Lon: -1.622},
	{Key: "st helier", Name: "St Helier", Lat: 49.183, Lon: -2.105},
	{Key: "st malo", Name: "St Malo", Lat: 48.649, Lon: -2.025},
	{Key: "le havre", Name: "Le Havre", Lat: 49.494, Lon: 0.107},
	{Key: "honfleur", Name: "Honfleur", Lat: 49.419, Lon: 0.232},
	{Key: "dieppe", Name: "Dieppe", Lat: 49.925, Lon: 1.078},
	{Key: "fecamp", Name: "Fécamp", Lat: 49.757, Lon: 0.374},
	{Key: "granville", Name: "Granville", Lat: 48.839, Lon: -1.596},
	{Key: "roscoff", Name: "Roscoff", Lat: 48.724, Lon: -3.984},
	{Key: "brest", Name: "Brest", Lat: 48.390, Lon: -4.487},
	{Key: "concarneau", Name: "Concarneau", Lat: 47.875, Lon: -3.917},
	{Key: "lorient", Name: "Lorient", Lat: 47.748, Lon: -3.366},
	{Key: "les sables d'olonne", Name: "Les Sables d'Olonne", Lat: 46.496, Lon: -1.794},
	{Key: "la rochelle", Name: "La Rochelle", Lat: 46.155, Lon: -1.151},
	{Key: "la rochelle-pallice", Name: "La Rochelle-Pallice", Lat: 46.159, Lon: -1.223},
	{Key: "dunkerque", Name: "Dunkerque", Lat: 51.049, Lon: 2.377},
	{Key: "calais", Name: "Calais", Lat: 50.958, Lon: 1.851},
	{Key: "deauville", Name: "Deauville", Lat: 49.363, Lon: 0.078},
	{Key: "brighton", Name: "Brighton", Lat: 50.820, Lon: -0.142},
	{Key: "newhaven", Name: "Newhaven", Lat: 50.793, Lon: 0.055},
	{Key: "eastbourne", Name: "Eastbourne", Lat: 50.770, Lon: 0.293},
	{Key: "chichester", Name: "Chichester", Lat: 50.814, Lon: -0.876},
	{Key: "langstone", Name: "Langstone", Lat: 50.824, Lon: -1.012},
}

// Gazetteer is the offline harbour table consulted before any network
// lookup. Built-in entries come first and win on key collisions with
// imported ones.
type Gazetteer struct {
	entries []Entry
	byKey   map[string]int
}

// NewGazetteer builds the built-in table extended with extra entries
func NewGazetteer(extra ...Entry) *Gazetteer {
	g := &Gazetteer{byKey: make(map[string]int, len(builtinEntries)+len(extra))}
	for _, e := range builtinEntries {
		e.Source = SourceBuiltin
		g.add(e)
	}
	for _, e := range extra {
		if e.Key == "" {
			e.Key = NormalizeQuery(e.Name)
		}
		g.add(e)
	}
	return g
}

func (g *Gazetteer) add(e Entry) {
	if e.Key == "" {
		return
	}
	if _, exists := g.byKey[e.Key]; exists {
		return
	}
	g.byKey[e.Key] = len(g.entries)
	g.entries = append(g.entries, e)
}

// Len returns the number of entries
func (g *Gazetteer) Len() int {
	return len(g.entries)
}

// Entries returns every entry in lookup order
func (g *Gazetteer) Entries() []Entry {
	return append([]Entry(nil), g.entries...)
}

// Lookup finds the entry whose key equals the normalized query
func (g *Gazetteer) Lookup(query string) (Entry, bool) {
	i, ok := g.byKey[NormalizeQuery(query)]
	if !ok {
		return Entry{}, false
	}
	return g.entries[i], true
}

// Match finds the first entry whose key and the normalized query agree up
// to a word boundary in either direction: "st malo intra muros" matches
// "st malo" and "les sables" matches "les sables d'olonne". Partial words
// never match.
func (g *Gazetteer) Match(query string) (Entry, bool) {
	q := NormalizeQuery(query)
	if q == "" {
		return Entry{}, false
	}
	for _, e := range g.entries {
		if q == e.Key || strings.HasPrefix(q, e.Key+" ") || strings.HasPrefix(e.Key, q+" ") {
			return e, true
		}
	}
	return Entry{}, false
}

// Similar returns up to limit entry names that fuzzily resemble query, best
// first. It only feeds "did you mean" hints and never resolves a name.
func (g *Gazetteer) Similar(query string, limit int) []string {
	q := NormalizeQuery(query)
	if q == "" || limit <= 0 {
		return nil
	}

	keys := make([]string, len(g.entries))
	for i, e := range g.entries {
		keys[i] = e.Key
	}

	var names []string
	for _, m := range fuzzy.Find(q, keys) {
		names = append(names, g.entries[m.Index].Name)
		if len(names) == limit {
			break
		}
	}
	return names
}
