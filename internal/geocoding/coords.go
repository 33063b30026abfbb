package geocoding

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ngmaloney/passage-log/internal/models"
)

// Axis selects latitude or longitude bounds and hemisphere letters
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

var (
	decimalRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	// 50°45.123'N, 50 45.123 N, 1°32.4'W
	dmmRe = regexp.MustCompile(`^(\d{1,3})\s*(?:°|º|\s)\s*(\d{1,2}(?:\.\d+)?)\s*(?:['’′]|\s)?\s*([NSEW])$`)
)

// ParseCoordinate parses decimal degrees or degrees and decimal minutes
// with a hemisphere letter. Values outside ±90 (latitude) or ±180
// (longitude) are rejected.
func ParseCoordinate(s string, axis Axis) (float64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty value: %w", ErrInvalidCoordinate)
	}

	var v float64
	if decimalRe.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidCoordinate)
		}
		v = f
	} else {
		m := dmmRe.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidCoordinate)
		}
		deg, _ := strconv.ParseFloat(m[1], 64)
		minutes, _ := strconv.ParseFloat(m[2], 64)
		if minutes >= 60 {
			return 0, fmt.Errorf("%q: minutes must be below 60: %w", s, ErrInvalidCoordinate)
		}

		hemi := m[3]
		switch {
		case axis == Latitude && (hemi == "E" || hemi == "W"):
			return 0, fmt.Errorf("%q: latitude needs N or S: %w", s, ErrInvalidCoordinate)
		case axis == Longitude && (hemi == "N" || hemi == "S"):
			return 0, fmt.Errorf("%q: longitude needs E or W: %w", s, ErrInvalidCoordinate)
		}

		v = deg + minutes/60
		if hemi == "S" || hemi == "W" {
			v = -v
		}
	}

	limit := 90.0
	if axis == Longitude {
		limit = 180
	}
	if math.Abs(v) > limit {
		return 0, fmt.Errorf("%q out of range ±%.0f: %w", s, limit, ErrInvalidCoordinate)
	}
	return v, nil
}

// ParseLatLon parses a latitude and longitude pair
func ParseLatLon(lat, lon string) (models.Coordinates, error) {
	la, err := ParseCoordinate(lat, Latitude)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("latitude: %w", err)
	}
	lo, err := ParseCoordinate(lon, Longitude)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("longitude: %w", err)
	}
	return models.Coordinates{Lat: la, Lon: lo}, nil
}

// FormatDMM renders a position as degrees and decimal minutes,
// e.g. 50°45.480'N  1°32.400'W
func FormatDMM(lat, lon float64) string {
	return formatAxis(lat, "N", "S") + "  " + formatAxis(lon, "E", "W")
}

func formatAxis(v float64, pos, neg string) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	// thousandths of a minute, rounded once so 59.9996' carries into the degree
	total := int64(math.Round(math.Abs(v) * 60000))
	deg := total / 60000
	minutes := float64(total%60000) / 1000
	return fmt.Sprintf("%d°%06.3f'%s", deg, minutes, hemi)
}
