package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/ports"
)

type portsFetchedMsg struct {
	ports []models.PortRecord
}

type portDeletedMsg struct {
	name string
	err  error
}

func fetchSavedPorts(s *ports.Service) tea.Cmd {
	return func() tea.Msg {
		return portsFetchedMsg{ports: s.Directory().ListAll()}
	}
}

func deletePort(ctx context.Context, s *ports.Service, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.Remove(ctx, name)
		return portDeletedMsg{name: name, err: err}
	}
}
