package ports

import (
	"context"
	"fmt"
	"testing"

	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/stretchr/testify/assert"
)

func records(names ...string) []models.PortRecord {
	out := make([]models.PortRecord, len(names))
	for i, n := range names {
		out[i] = models.PortRecord{Name: n}
	}
	return out
}

func TestSuggest(t *testing.T) {
	dir := records("Cowes", "Calais", "Canterbury", "Port Solent", "Lymington", "Newhaven")

	tests := []struct {
		name   string
		query  string
		recent []string
		want   []string
	}{
		{"prefix matches sort alphabetically", "ca", nil, []string{"Calais", "Canterbury"}},
		{"case-insensitive", "CA", nil, []string{"Calais", "Canterbury"}},
		{"contains match", "ton", nil, []string{"Lymington"}},
		{"contains only, alphabetical", "en", nil, []string{"Newhaven", "Port Solent"}},
		{"single letter", "c", nil, []string{"Calais", "Canterbury", "Cowes"}},
		{"empty query uses recent", "", []string{"Lymington", "Cowes"}, []string{"Lymington", "Cowes"}},
		{"empty query without recent is alphabetical", "", nil, []string{"Calais", "Canterbury", "Cowes", "Lymington", "Newhaven", "Port Solent"}},
		{"no match", "zzz", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.query, dir, tt.recent))
		})
	}
}

func TestSuggest_StartsWithOutranksContains(t *testing.T) {
	dir := records("Newport", "Portland", "Davenport")
	assert.Equal(t, []string{"Portland", "Davenport", "Newport"}, Suggest("port", dir, nil))
}

func TestSuggest_BoundedAndUnique(t *testing.T) {
	var names []string
	for i := 0; i < 10; i++ {
		names = append(names, fmt.Sprintf("Marina %d", i))
	}
	names = append(names, "marina 0")

	got := Suggest("marina", records(names...), nil)
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Marina 0", got[0])

	recent := []string{"Poole", "poole", "Cowes"}
	assert.Equal(t, []string{"Poole", "Cowes"}, Suggest(" ", nil, recent))
}

func TestSuggest_EmptyQueryMatchesDirectoryOrder(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, &memStore{})
	for _, n := range []string{"Fowey", "Écluse", "Dover", "Eastbourne"} {
		d.Upsert(ctx, n, nil)
	}

	var listed []string
	for _, p := range d.ListAll() {
		listed = append(listed, p.Name)
	}
	assert.Equal(t, []string{"Dover", "Eastbourne", "Écluse", "Fowey"}, listed)
	assert.Equal(t, listed, Suggest("", records("Fowey", "Écluse", "Dover", "Eastbourne"), nil))
}
