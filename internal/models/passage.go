package models

import "time"

// Plan holds the voyage-plan fields of a passage that the port core reads
// and writes. Other plan fields are carried through untouched in Extra.
type Plan struct {
	Date       string         `json:"date"` // YYYY-MM-DD
	From       string         `json:"from"`
	To         string         `json:"to"`
	Vessel     string         `json:"vessel,omitempty"`
	Skipper    string         `json:"skipper,omitempty"`
	Crew       string         `json:"crew,omitempty"`
	SunriseSet string         `json:"sunriseSet"` // "HH:MM / HH:MM" snapshot
	Extra      map[string]any `json:"extra,omitempty"`
}

// Passage is a single logbook passage. Log entries are opaque to this module.
type Passage struct {
	ID        string           `json:"id"`
	Plan      Plan             `json:"plan"`
	Entries   []map[string]any `json:"entries,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Title returns "From → To", falling back to whatever is set.
func (p Passage) Title() string {
	switch {
	case p.Plan.From != "" && p.Plan.To != "":
		return p.Plan.From + " → " + p.Plan.To
	case p.Plan.From != "":
		return p.Plan.From
	case p.Plan.To != "":
		return p.Plan.To
	}
	return "Untitled passage"
}
