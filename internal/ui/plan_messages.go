package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/passages"
	"github.com/ngmaloney/passage-log/internal/resolver"
)

// debounceDelay is how long typing must pause before suggestions and the
// sun preview refresh
const debounceDelay = 300 * time.Millisecond

// resolveTimeout bounds a single committed resolution, online tier included
const resolveTimeout = 30 * time.Second

// PortResolver resolves port names and applies pending decisions
type PortResolver interface {
	Resolve(ctx context.Context, name string, opts resolver.Options) resolver.Result
	Confirm(ctx context.Context, p resolver.Pending, d resolver.Decision) (*models.ResolvedCoordinate, error)
}

func debounce(seq int) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// resolvePort resolves a committed field. ctx is owned by the field tracker
// and is cancelled when the field is committed again.
func resolvePort(ctx context.Context, r PortResolver, field string, token uint64, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()

		res := r.Resolve(ctx, name, resolver.Options{Persist: true, Interactive: true})
		return resolvedMsg{field: field, token: token, name: name, result: res}
	}
}

func confirmPending(ctx context.Context, r PortResolver, field string, p resolver.Pending, d resolver.Decision) tea.Cmd {
	return func() tea.Msg {
		coord, err := r.Confirm(ctx, p, d)
		return confirmedMsg{field: field, coord: coord, err: err}
	}
}

// computePreview recomputes the plan's sunrise/sunset without persisting
// anything
func computePreview(ctx context.Context, s *passages.Service, token uint64, plan models.Plan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()
		return previewMsg{token: token, value: s.ComputeSunriseSet(ctx, plan)}
	}
}

func savePassage(ctx context.Context, s *passages.Service, plan models.Plan) tea.Cmd {
	return func() tea.Msg {
		p, err := s.Create(ctx, plan)
		if err != nil {
			return errMsg{err: err}
		}
		return passageSavedMsg{passage: p}
	}
}
