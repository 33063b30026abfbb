package geocoding

import (
	"fmt"
	"math"

	"github.com/ngmaloney/passage-log/internal/models"
)

const earthRadiusKm = 6371.0

// HaversineDistance calculates distance in kilometres between two lat/lon points
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Region is the sailing area searches are restricted to. Positions further
// than RadiusKm from the reference point are never accepted.
type Region struct {
	Viewbox      string // left,top,right,bottom
	CountryCodes []string
	RefLat       float64
	RefLon       float64
	RadiusKm     float64
}

// DefaultRegion covers the English Channel and Biscay coasts
func DefaultRegion() Region {
	return Region{
		Viewbox:      "-6.8,53.5,3.5,45.5",
		CountryCodes: []string{"gb", "fr"},
		RefLat:       50.76,
		RefLon:       -1.54,
		RadiusKm:     1500,
	}
}

// DistanceKm returns the distance of c from the reference point
func (r Region) DistanceKm(c models.Coordinates) float64 {
	return HaversineDistance(r.RefLat, r.RefLon, c.Lat, c.Lon)
}

// Contains reports whether c lies within the sanity radius
func (r Region) Contains(c models.Coordinates) bool {
	return r.DistanceKm(c) <= r.RadiusKm
}

// Check returns ErrOutOfRange when c lies outside the sanity radius
func (r Region) Check(c models.Coordinates) error {
	if d := r.DistanceKm(c); d > r.RadiusKm {
		return fmt.Errorf("%.0f km from reference, limit %.0f km: %w", d, r.RadiusKm, ErrOutOfRange)
	}
	return nil
}
