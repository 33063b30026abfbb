package models

import "fmt"

// SunTimes are local clock times ("15:04") for one date and location.
type SunTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// String renders the plan snapshot form, e.g. "05:01 / 21:24".
func (s SunTimes) String() string {
	return fmt.Sprintf("%s / %s", s.Sunrise, s.Sunset)
}
