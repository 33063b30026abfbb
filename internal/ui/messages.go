package ui

import (
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/resolver"
)

// Message types for async operations

// debounceMsg fires after typing pauses. Only the latest seq is acted on.
type debounceMsg struct {
	seq int
}

// resolvedMsg is sent when a committed port field has been resolved
type resolvedMsg struct {
	field  string
	token  uint64
	name   string
	result resolver.Result
}

// confirmedMsg is sent when a pending decision has been applied
type confirmedMsg struct {
	field string
	coord *models.ResolvedCoordinate
	err   error
}

// previewMsg carries a freshly computed sunrise/sunset preview
type previewMsg struct {
	token uint64
	value string
}

// passageSavedMsg is sent when the plan has been stored as a passage
type passageSavedMsg struct {
	passage models.Passage
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}
