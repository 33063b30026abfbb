package ui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/passages"
	"github.com/ngmaloney/passage-log/internal/ports"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/ngmaloney/passage-log/internal/suncalc"
)

// candidateGeocoder returns the same candidates for every query
type candidateGeocoder struct {
	candidates []geocoding.Candidate
}

func (g candidateGeocoder) Search(ctx context.Context, query string) ([]geocoding.Candidate, error) {
	return g.candidates, nil
}

var hambleCandidate = geocoding.Candidate{DisplayName: "Hamble-le-Rice, Hampshire", Lat: 50.857, Lon: -1.314}

// newTestModel wires a model to an in-memory database. geocoder may be nil.
func newTestModel(t *testing.T, geocoder geocoding.Geocoder) (Model, *ports.Service, *passages.Service) {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	region := geocoding.DefaultRegion()

	dir := ports.NewDirectory(ports.NewRepository(db), ports.WithLogger(logger))
	if err := dir.Load(ctx); err != nil {
		t.Fatalf("loading directory: %v", err)
	}
	svc := ports.NewService(dir, region)
	res := resolver.New(svc, geocoding.NewGazetteer(), geocoder, region, logger)

	sun, err := suncalc.NewForZone(suncalc.DefaultTimezone)
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 21, 9, 0, 0, 0, time.UTC))
	ps := passages.NewService(passages.NewRepository(db), res, sun, clock, logger)

	m := NewModel(ctx, Deps{Ports: svc, Resolver: res, Passages: ps, Logger: logger})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), svc, ps
}

// runCmd executes cmd and any batched commands, returning their messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed sends msgs of the wanted types back into the model
func feed(m Model, msgs []tea.Msg) Model {
	for _, msg := range msgs {
		switch msg.(type) {
		case resolvedMsg, confirmedMsg, previewMsg, passageSavedMsg, portsFetchedMsg, portDeletedMsg, errMsg:
			updated, _ := m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
