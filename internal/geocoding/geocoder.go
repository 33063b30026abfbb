package geocoding

import (
	"context"
	"errors"
)

var (
	// ErrNoMatch means no tier or provider produced a usable position.
	ErrNoMatch = errors.New("no match")
	// ErrOutOfRange means a position lies outside the sanity radius.
	ErrOutOfRange = errors.New("outside sanity radius")
	// ErrInvalidCoordinate means a coordinate string could not be parsed or is out of bounds.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Candidate is one result from an online search
type Candidate struct {
	DisplayName string
	Lat         float64
	Lon         float64
}

// Geocoder searches free text for positions. Any provider returning
// candidates with parseable lat/lon is interchangeable.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}
