package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
)

// portItem wraps a PortRecord for use in a list
type portItem struct {
	port models.PortRecord
}

// FilterValue implements list.Item
func (p portItem) FilterValue() string {
	return p.port.Name
}

// Title implements list.DefaultItem
func (p portItem) Title() string {
	return p.port.Name
}

// Description implements list.DefaultItem
func (p portItem) Description() string {
	if !p.port.HasCoords() {
		return "no position"
	}
	return geocoding.FormatDMM(p.port.Coords.Lat, p.port.Coords.Lon)
}

func portItems(ports []models.PortRecord) []list.Item {
	items := make([]list.Item, len(ports))
	for i, port := range ports {
		items[i] = portItem{port: port}
	}
	return items
}

// createPortList creates a list.Model from ports
func createPortList(ports []models.PortRecord, width, height int) list.Model {
	l := list.New(portItems(ports), list.NewDefaultDelegate(), width, height)
	l.Title = "Saved Ports"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return l
}
