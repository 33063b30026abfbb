// Package suncalc computes sunrise and sunset with the NOAA approximate
// solar position method.
package suncalc

import (
	"fmt"
	"math"
	"regexp"
	"time"
	_ "time/tzdata"

	"github.com/ngmaloney/passage-log/internal/models"
)

const (
	// Zenith is the official sunrise/sunset zenith in degrees, allowing for
	// refraction and the radius of the solar disk.
	Zenith = 90.833

	DefaultTimezone = "Europe/London"
)

var dateRe = regexp.MustCompile(`^\s*(\d{4})-(\d{2})-(\d{2})\s*$`)

// Calculator renders sun times as clock times in a fixed display zone
type Calculator struct {
	loc *time.Location
}

// New creates a calculator for loc. A nil loc means UTC.
func New(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// NewForZone creates a calculator for an IANA zone name
func NewForZone(name string) (*Calculator, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %s: %w", name, err)
	}
	return New(loc), nil
}

var defaultCalculator = func() *Calculator {
	c, err := NewForZone(DefaultTimezone)
	if err != nil {
		return New(time.UTC)
	}
	return c
}()

// SunTimes computes sunrise and sunset in Europe/London clock time
func SunTimes(date string, lat, lon float64) *models.SunTimes {
	return defaultCalculator.SunTimes(date, lat, lon)
}

// Location returns the display zone
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// SunTimes returns sunrise and sunset for a YYYY-MM-DD date at lat/lon, or
// nil when the date is malformed, the position is not a finite number, or
// the sun does not rise or set that day (polar day or night). The result
// depends only on its inputs.
func (c *Calculator) SunTimes(date string, lat, lon float64) *models.SunTimes {
	day, ok := ParseDate(date)
	if !ok || !finite(lat) || !finite(lon) {
		return nil
	}

	rise, ok := UTCMinutes(day, lat, lon, true)
	if !ok {
		return nil
	}
	set, ok := UTCMinutes(day, lat, lon, false)
	if !ok {
		return nil
	}

	return &models.SunTimes{
		Sunrise: c.clock(day, rise),
		Sunset:  c.clock(day, set),
	}
}

func (c *Calculator) clock(day time.Time, minutes int) string {
	return day.Add(time.Duration(minutes) * time.Minute).In(c.loc).Format("15:04")
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight
func ParseDate(s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UTCMinutes returns the minutes after UTC midnight of day at which the sun
// rises (rise true) or sets. ok is false when the cosine of the hour angle
// falls outside [-1, 1].
func UTCMinutes(day time.Time, lat, lon float64, rise bool) (int, bool) {
	n := float64(day.YearDay())
	lngHour := lon / 15

	approx := 18.0
	if rise {
		approx = 6
	}
	t := n + (approx-lngHour)/24

	// mean anomaly
	m := 0.9856*t - 3.289

	// true longitude
	l := norm(m+1.916*sinDeg(m)+0.020*sinDeg(2*m)+282.634, 360)

	// right ascension, moved into the same quadrant as l
	ra := norm(degrees(math.Atan(0.91764*math.Tan(radians(l)))), 360)
	ra += math.Floor(l/90)*90 - math.Floor(ra/90)*90
	ra /= 15

	// declination
	sinDec := 0.39782 * sinDeg(l)
	cosDec := math.Cos(math.Asin(sinDec))

	cosH := (math.Cos(radians(Zenith)) - sinDec*sinDeg(lat)) / (cosDec * math.Cos(radians(lat)))
	if cosH > 1 || cosH < -1 || math.IsNaN(cosH) {
		return 0, false
	}

	h := degrees(math.Acos(cosH))
	if rise {
		h = 360 - h
	}
	h /= 15

	localMean := h + ra - 0.06571*t - 6.622
	ut := norm(localMean-lngHour, 24)

	return int(math.Round(ut * 60)), true
}

func norm(v, m float64) float64 {
	v = math.Mod(v, m)
	if v < 0 {
		v += m
	}
	return v
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
func sinDeg(d float64) float64  { return math.Sin(radians(d)) }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
