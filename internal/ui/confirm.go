package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/resolver"
)

// confirmState is the dialog shown for a pending resolution: use the online
// match, type coordinates, or skip for now
type confirmState struct {
	field   string
	pending resolver.Pending
	manual  bool
	lat     textinput.Model
	lon     textinput.Model
	onLon   bool
	busy    bool
	err     error
}

func newConfirmState(field string, p resolver.Pending) confirmState {
	lat := textinput.New()
	lat.Placeholder = "50 45.5N or 50.758"
	lat.CharLimit = 20
	lat.Width = 24

	lon := textinput.New()
	lon.Placeholder = "1 32.4W or -1.540"
	lon.CharLimit = 20
	lon.Width = 24

	return confirmState{field: field, pending: p, lat: lat, lon: lon}
}

// updateInput forwards non-key messages such as cursor blinks to the
// focused coordinate input
func (c confirmState) updateInput(msg tea.Msg) (confirmState, tea.Cmd) {
	if !c.manual {
		return c, nil
	}
	var cmd tea.Cmd
	if c.onLon {
		c.lon, cmd = c.lon.Update(msg)
	} else {
		c.lat, cmd = c.lat.Update(msg)
	}
	return c, cmd
}

// handleConfirmKey handles keyboard input in the confirmation dialog
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.confirm
	if c.busy {
		return m, nil
	}

	if c.manual {
		switch msg.Type {
		case tea.KeyEsc:
			c.manual = false
			c.err = nil
			c.lat.Blur()
			c.lon.Blur()
			return m, nil

		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			c.onLon = !c.onLon
			if c.onLon {
				c.lat.Blur()
				followUp := c.lon.Focus()
				return m, followUp
			}
			c.lon.Blur()
			followUp := c.lat.Focus()
			return m, followUp

		case tea.KeyEnter:
			c.busy = true
			c.err = nil
			d := resolver.Decision{Action: resolver.Manual, Lat: c.lat.Value(), Lon: c.lon.Value()}
			return m, confirmPending(m.ctx, m.deps.Resolver, c.field, c.pending, d)
		}

		var cmd tea.Cmd
		*c, cmd = c.updateInput(msg)
		return m, cmd
	}

	switch strings.ToLower(msg.String()) {
	case "s", "y":
		if c.pending.Proposal == nil {
			return m, nil
		}
		c.busy = true
		return m, confirmPending(m.ctx, m.deps.Resolver, c.field, c.pending, resolver.Decision{Action: resolver.Accept})

	case "m":
		c.manual = true
		c.onLon = false
		followUp := c.lat.Focus()
		return m, followUp

	case "n", "esc":
		c.busy = true
		return m, confirmPending(m.ctx, m.deps.Resolver, c.field, c.pending, resolver.Decision{Action: resolver.Decline})
	}

	return m, nil
}

// viewConfirm renders the confirmation dialog
func (m Model) viewConfirm() string {
	c := m.confirm
	title := titleStyle.Render(fmt.Sprintf("⚓ Position for %q", c.pending.Name))

	var lines []string
	if p := c.pending.Proposal; p != nil {
		label := p.Label
		if label == "" {
			label = p.Name
		}
		lines = append(lines,
			"Found online:",
			valueStyle.Render(label),
			mutedStyle.Render(geocoding.FormatDMM(p.Lat, p.Lon)),
		)
	} else {
		lines = append(lines, "No match found.")
		if len(c.pending.Hints) > 0 {
			lines = append(lines, mutedStyle.Render("Did you mean: "+strings.Join(c.pending.Hints, ", ")+"?"))
		}
	}

	if c.manual {
		lines = append(lines, "",
			labelStyle.Render("Lat")+" "+c.lat.View(),
			labelStyle.Render("Lon")+" "+c.lon.View(),
		)
	}

	if c.err != nil {
		lines = append(lines, "", errorStyle.Render("✗ "+c.err.Error()))
	}

	var help string
	switch {
	case c.busy:
		help = "Saving..."
	case c.manual:
		help = "Tab: Switch field • Enter: Use position • Esc: Back"
	case c.pending.Proposal != nil:
		help = "S: Save • M: Enter manually • N: Not now"
	default:
		help = "M: Enter manually • N: Not now"
	}

	dialog := dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinVertical(lipgloss.Left, title, "", dialog, helpStyle.Render(help))
}
