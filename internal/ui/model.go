package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/passages"
	"github.com/ngmaloney/passage-log/internal/ports"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/ngmaloney/passage-log/internal/suncalc"
)

// AppState represents the current state of the application
type AppState int

const (
	StatePlan    AppState = iota // Editing the passage plan
	StateConfirm                 // Asking whether to use an online match or manual entry
	StatePorts                   // Managing saved ports
	StateError                   // Error state
)

// Plan fields in focus order
const (
	fieldDate = iota
	fieldFrom
	fieldTo
	fieldCount
)

var fieldNames = [fieldCount]string{"date", "from", "to"}

// previewKey is the tracker key for the sunrise/sunset preview
const previewKey = "preview"

// Deps are the services the UI drives
type Deps struct {
	Ports    *ports.Service
	Resolver PortResolver
	Passages *passages.Service
	Logger   *slog.Logger
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	deps    Deps
	ctx     context.Context
	tracker *resolver.FieldTracker

	// Plan editor
	inputs      [fieldCount]textinput.Model
	focus       int
	suggestions []string
	selected    int // index into suggestions, -1 for none
	seq         int // latest debounce sequence
	resolving   int
	resolved    map[string]*models.ResolvedCoordinate
	preview     string
	status      string

	// Pending decisions, one dialog at a time
	confirm confirmState
	queue   []confirmState

	portList list.Model
	spinner  spinner.Model
}

// NewModel creates a new application model
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	placeholders := [fieldCount]string{
		"YYYY-MM-DD (blank for today)",
		"Departure port",
		"Destination port, or local",
	}
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 60
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldDate].CharLimit = 10
	inputs[fieldFrom].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:    StatePlan,
		deps:     deps,
		ctx:      ctx,
		tracker:  resolver.NewFieldTracker(),
		inputs:   inputs,
		focus:    fieldFrom,
		selected: -1,
		resolved: make(map[string]*models.ResolvedCoordinate),
		spinner:  s,
	}
}

// Run starts the terminal UI and blocks until it exits
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(NewModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StatePorts {
			m.portList.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.refreshSuggestions()
		followUp := m.startPreview()
		return m, followUp

	case resolvedMsg:
		return m.handleResolved(msg)

	case confirmedMsg:
		return m.handleConfirmed(msg)

	case previewMsg:
		if !m.tracker.IsCurrent(previewKey, msg.token) {
			return m, nil
		}
		m.tracker.Done(previewKey, msg.token)
		m.preview = msg.value
		return m, nil

	case passageSavedMsg:
		m.preview = msg.passage.Plan.SunriseSet
		m.status = fmt.Sprintf("✓ Saved passage %s on %s", msg.passage.Title(), msg.passage.Plan.Date)
		return m, nil

	case portsFetchedMsg:
		m.portList = createPortList(msg.ports, m.width-4, m.height-6)
		m.state = StatePorts
		return m, nil

	case portDeletedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("removing %s: %w", msg.name, msg.err)
			m.state = StateError
			return m, nil
		}
		m.status = fmt.Sprintf("✓ Removed %s", msg.name)
		followUp := m.portList.SetItems(portItems(m.deps.Ports.Directory().ListAll()))
		return m, followUp

	case spinner.TickMsg:
		if m.resolving == 0 {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.tracker.CancelAll()
			return m, tea.Quit
		}

		switch m.state {
		case StatePlan:
			return m.handlePlanKey(msg)
		case StateConfirm:
			return m.handleConfirmKey(msg)
		case StatePorts:
			return m.handlePortsKey(msg)
		case StateError:
			// Any key returns to the plan
			m.state = StatePlan
			m.err = nil
			followUp := m.inputs[m.focus].Focus()
			return m, followUp
		}
	}

	switch m.state {
	case StatePlan:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case StateConfirm:
		m.confirm, cmd = m.confirm.updateInput(msg)
	case StatePorts:
		m.portList, cmd = m.portList.Update(msg)
	}
	return m, cmd
}

// handlePlanKey handles keyboard input in the plan editor
func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.savePlan()

	case "ctrl+p":
		return m, fetchSavedPorts(m.deps.Ports)

	case "esc":
		m.clearSuggestions()
		return m, nil

	case "up":
		if len(m.suggestions) > 0 && m.selected > -1 {
			m.selected--
		}
		return m, nil

	case "down":
		if len(m.suggestions) > 0 && m.selected < len(m.suggestions)-1 {
			m.selected++
		}
		return m, nil

	case "tab", "enter", "shift+tab":
		if m.selected >= 0 && m.selected < len(m.suggestions) {
			m.inputs[m.focus].SetValue(m.suggestions[m.selected])
		}
		commit := m.commitField(m.focus)

		next := (m.focus + 1) % fieldCount
		if msg.String() == "shift+tab" {
			next = (m.focus + fieldCount - 1) % fieldCount
		}
		followUp := tea.Batch(commit, m.setFocus(next))
		return m, followUp
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() == before {
		return m, cmd
	}

	// Clear error and stale position when typing
	m.err = nil
	m.status = ""
	delete(m.resolved, fieldNames[m.focus])
	m.seq++
	return m, tea.Batch(cmd, debounce(m.seq))
}

// commitField resolves a port field when it loses focus or is submitted
func (m *Model) commitField(i int) tea.Cmd {
	m.clearSuggestions()

	if i == fieldDate {
		if d := strings.TrimSpace(m.inputs[i].Value()); d != "" {
			if _, ok := suncalc.ParseDate(d); !ok {
				m.err = fmt.Errorf("date %q must be YYYY-MM-DD", d)
				return nil
			}
		}
		return m.startPreview()
	}

	field := fieldNames[i]
	name := strings.TrimSpace(m.inputs[i].Value())
	if name == "" {
		delete(m.resolved, field)
		return m.startPreview()
	}
	if hit, ok := m.resolved[field]; ok && hit.Name == name {
		return nil
	}
	if i == fieldTo && strings.EqualFold(name, "local") {
		return m.startPreview()
	}
	if !ports.IsPlausiblePortName(name) {
		delete(m.resolved, field)
		return m.startPreview()
	}

	ctx, token := m.tracker.Begin(m.ctx, field)
	m.resolving++
	cmds := []tea.Cmd{resolvePort(ctx, m.deps.Resolver, field, token, name)}
	if m.resolving == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// handleResolved applies a finished resolution. Results superseded by a
// newer commit of the same field, or by further typing, are dropped.
func (m Model) handleResolved(msg resolvedMsg) (tea.Model, tea.Cmd) {
	m.resolving--
	if !m.tracker.IsCurrent(msg.field, msg.token) {
		m.deps.Logger.Debug("dropping superseded resolution", "field", msg.field, "name", msg.name)
		return m, nil
	}
	m.tracker.Done(msg.field, msg.token)

	i := fieldIndex(msg.field)
	if strings.TrimSpace(m.inputs[i].Value()) != msg.name {
		return m, nil
	}

	switch {
	case msg.result.Found():
		m.resolved[msg.field] = msg.result.Coordinate
		m.status = fmt.Sprintf("✓ %s  %s", msg.result.Coordinate.Name,
			geocoding.FormatDMM(msg.result.Coordinate.Lat, msg.result.Coordinate.Lon))
		followUp := m.startPreview()
		return m, followUp

	case msg.result.Pending != nil:
		c := newConfirmState(msg.field, *msg.result.Pending)
		if m.state == StateConfirm {
			m.queue = append(m.queue, c)
			return m, nil
		}
		m.confirm = c
		m.state = StateConfirm
		m.inputs[m.focus].Blur()
		return m, nil
	}

	m.status = fmt.Sprintf("No position found for %s", msg.name)
	return m, nil
}

// handleConfirmed closes the dialog after a decision has been applied, or
// keeps it open with the error.
func (m Model) handleConfirmed(msg confirmedMsg) (tea.Model, tea.Cmd) {
	m.confirm.busy = false
	if msg.err != nil {
		m.confirm.err = msg.err
		return m, nil
	}

	name := m.confirm.pending.Name
	if msg.coord != nil {
		m.resolved[msg.field] = msg.coord
		m.status = fmt.Sprintf("✓ %s  %s", name, geocoding.FormatDMM(msg.coord.Lat, msg.coord.Lon))
	} else {
		m.status = fmt.Sprintf("No position for %s", name)
	}

	if len(m.queue) > 0 {
		m.confirm = m.queue[0]
		m.queue = m.queue[1:]
		return m, nil
	}

	m.confirm = confirmState{}
	m.state = StatePlan
	followUp := tea.Batch(m.inputs[m.focus].Focus(), m.startPreview())
	return m, followUp
}

// handlePortsKey handles keyboard input in the ports manager
func (m Model) handlePortsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.portList.FilterState() == list.Filtering {
		m.portList, cmd = m.portList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		if m.portList.FilterState() == list.FilterApplied {
			break
		}
		m.state = StatePlan
		followUp := m.inputs[m.focus].Focus()
		return m, followUp

	case "d", "delete":
		if item, ok := m.portList.SelectedItem().(portItem); ok {
			return m, deletePort(m.ctx, m.deps.Ports, item.port.Name)
		}
		return m, nil

	case "enter":
		item, ok := m.portList.SelectedItem().(portItem)
		if !ok {
			return m, nil
		}
		m.state = StatePlan
		target := m.focus
		if target == fieldDate {
			target = fieldFrom
		}
		m.inputs[target].SetValue(item.port.Name)
		commit := m.commitField(target)
		followUp := tea.Batch(commit, m.setFocus(target))
		return m, followUp
	}

	m.portList, cmd = m.portList.Update(msg)
	return m, cmd
}

// savePlan stores the current plan as a passage
func (m Model) savePlan() (tea.Model, tea.Cmd) {
	plan := m.plan()
	if plan.From == "" && plan.To == "" {
		m.err = errors.New("enter a departure or destination port")
		return m, nil
	}
	if _, ok := suncalc.ParseDate(plan.Date); !ok {
		m.err = fmt.Errorf("date %q must be YYYY-MM-DD", plan.Date)
		return m, nil
	}
	m.err = nil
	return m, savePassage(m.ctx, m.deps.Passages, plan)
}

// startPreview recomputes the sunrise/sunset preview in the background,
// superseding any preview still in flight
func (m *Model) startPreview() tea.Cmd {
	plan := m.plan()
	if plan.From == "" {
		m.preview = ""
		return nil
	}
	ctx, token := m.tracker.Begin(m.ctx, previewKey)
	return computePreview(ctx, m.deps.Passages, token, plan)
}

// plan builds a Plan from the editor fields
func (m Model) plan() models.Plan {
	date := strings.TrimSpace(m.inputs[fieldDate].Value())
	if date == "" && m.deps.Passages != nil {
		date = m.deps.Passages.Today()
	}
	return models.Plan{
		Date: date,
		From: strings.TrimSpace(m.inputs[fieldFrom].Value()),
		To:   strings.TrimSpace(m.inputs[fieldTo].Value()),
	}
}

func (m *Model) refreshSuggestions() {
	m.selected = -1
	if m.focus == fieldDate {
		m.suggestions = nil
		return
	}
	dir := m.deps.Ports.Directory()
	m.suggestions = ports.Suggest(m.inputs[m.focus].Value(), dir.ListAll(), dir.Recent())
}

func (m *Model) clearSuggestions() {
	m.suggestions = nil
	m.selected = -1
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func fieldIndex(field string) int {
	for i, name := range fieldNames {
		if name == field {
			return i
		}
	}
	return fieldFrom
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StatePlan:
		return m.viewPlan()
	case StateConfirm:
		return m.viewConfirm()
	case StatePorts:
		return m.viewPorts()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewPlan renders the plan editor
func (m Model) viewPlan() string {
	title := titleStyle.Render("⚓ Passage Plan")
	subtitle := mutedStyle.Render("Sunrise at departure • Sunset at destination")

	labels := [fieldCount]string{"Date", "From", "To"}
	var rows []string
	for i := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = activeLabelStyle.Render(labels[i])
		}
		row := label + " " + m.inputs[i].View()
		if hit, ok := m.resolved[fieldNames[i]]; ok {
			row += "  " + mutedStyle.Render(geocoding.FormatDMM(hit.Lat, hit.Lon))
		}
		rows = append(rows, row)

		if i == m.focus {
			for j, s := range m.suggestions {
				if j == m.selected {
					rows = append(rows, selectedSuggestionStyle.Render("› "+s))
				} else {
					rows = append(rows, suggestionStyle.Render("  "+s))
				}
			}
		}
	}

	sun := "-"
	if m.preview != "" {
		sun = m.preview
	}
	rows = append(rows, "", labelStyle.Render("Sun")+" "+valueStyle.Render(sun))

	box := sectionBoxStyle.Width(70).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	var sections []string
	sections = append(sections, title, subtitle, "", box)

	if m.resolving > 0 {
		sections = append(sections, fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Resolving...")))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("✗ "+m.err.Error()))
	} else if m.status != "" {
		sections = append(sections, successStyle.Render(m.status))
	}

	help := helpStyle.Render("Tab/Enter: Next field • ↑/↓: Suggestions • Ctrl+S: Save passage • Ctrl+P: Ports • Ctrl+C: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewPorts renders the ports manager
func (m Model) viewPorts() string {
	var sections []string
	sections = append(sections, m.portList.View())
	if m.status != "" {
		sections = append(sections, successStyle.Render(m.status))
	}
	sections = append(sections, helpStyle.Render("Enter: Use in plan • D: Delete • /: Filter • Esc: Back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	var errorMsg string
	if m.err != nil {
		errorMsg = m.err.Error()
	} else {
		errorMsg = "An unknown error occurred"
	}

	help := helpStyle.Render("Press any key to return to the plan • Ctrl+C: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}
