package geocoding

import (
	"errors"
	"math"
	"testing"

	"github.com/ngmaloney/passage-log/internal/models"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 50.76, -1.54, 50.76, -1.54, 0, 0.001},
		{"Lymington to Cherbourg", 50.758, -1.540, 49.642, -1.622, 124, 2},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistance() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestRegion_SanityRadius(t *testing.T) {
	r := DefaultRegion()

	tests := []struct {
		name   string
		c      models.Coordinates
		inside bool
	}{
		{"reference point", models.Coordinates{Lat: 50.76, Lon: -1.54}, true},
		{"La Rochelle", models.Coordinates{Lat: 46.155, Lon: -1.151}, true},
		{"Lisbon, inside 1500 km", models.Coordinates{Lat: 38.72, Lon: -9.14}, true},
		{"Gibraltar, beyond 1500 km", models.Coordinates{Lat: 36.14, Lon: -5.35}, false},
		{"Portland, Maine", models.Coordinates{Lat: 43.66, Lon: -70.25}, false},
		{"Falmouth, Jamaica", models.Coordinates{Lat: 18.49, Lon: -77.65}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.c); got != tt.inside {
				t.Errorf("Contains(%v) = %v (%.0f km), want %v", tt.c, got, r.DistanceKm(tt.c), tt.inside)
			}
			err := r.Check(tt.c)
			if tt.inside && err != nil {
				t.Errorf("Check(%v) = %v, want nil", tt.c, err)
			}
			if !tt.inside && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Check(%v) = %v, want ErrOutOfRange", tt.c, err)
			}
		})
	}
}
