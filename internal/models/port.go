package models

import (
	"encoding/json"
	"fmt"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PortRecord is a saved port. Coords is nil when only the name is known.
//
// On disk a record is either a bare JSON string (name only) or an object
// {"name": ..., "lat": ..., "lon": ...}, matching the ports blob layout.
type PortRecord struct {
	Name   string
	Coords *Coordinates
}

// HasCoords reports whether the record carries a position.
func (p PortRecord) HasCoords() bool {
	return p.Coords != nil
}

type portRecordJSON struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (p PortRecord) MarshalJSON() ([]byte, error) {
	if p.Coords == nil {
		return json.Marshal(p.Name)
	}
	lat, lon := p.Coords.Lat, p.Coords.Lon
	return json.Marshal(portRecordJSON{Name: p.Name, Lat: &lat, Lon: &lon})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PortRecord) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = PortRecord{Name: name}
		return nil
	}

	var obj portRecordJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding port record: %w", err)
	}
	*p = PortRecord{Name: obj.Name}
	if obj.Lat != nil && obj.Lon != nil {
		p.Coords = &Coordinates{Lat: *obj.Lat, Lon: *obj.Lon}
	}
	return nil
}

// PortsBlob is the persisted form of the port directory.
type PortsBlob struct {
	All    []PortRecord `json:"all"`
	Recent []string     `json:"recent"`
	// Dropped counts entries skipped while decoding because they were malformed
	Dropped int `json:"-"`
}

// UnmarshalJSON accepts both the current object layout and the older bare
// array of records (which carries no recent list). Malformed records and
// non-string recent entries are skipped and counted in Dropped.
func (b *PortsBlob) UnmarshalJSON(data []byte) error {
	var legacy []json.RawMessage
	if err := json.Unmarshal(data, &legacy); err == nil {
		*b = PortsBlob{}
		b.All, b.Dropped = decodeRecords(legacy)
		return nil
	}

	var v struct {
		All    []json.RawMessage `json:"all"`
		Recent []json.RawMessage `json:"recent"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding ports blob: %w", err)
	}

	*b = PortsBlob{}
	b.All, b.Dropped = decodeRecords(v.All)
	for _, raw := range v.Recent {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			b.Dropped++
			continue
		}
		b.Recent = append(b.Recent, name)
	}
	return nil
}

func decodeRecords(raw []json.RawMessage) ([]PortRecord, int) {
	var (
		out     []PortRecord
		dropped int
	)
	for _, r := range raw {
		var p PortRecord
		if err := json.Unmarshal(r, &p); err != nil {
			dropped++
			continue
		}
		out = append(out, p)
	}
	return out, dropped
}

// ResolvedCoordinate is a name paired with a position, as produced by the
// resolver. It is not stored unless explicitly upserted into the directory.
type ResolvedCoordinate struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"`          // which resolver tier produced it
	Label  string  `json:"label,omitempty"` // provider description, online results only
}
