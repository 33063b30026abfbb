package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortRecord_JSONShapes(t *testing.T) {
	bare, err := json.Marshal(PortRecord{Name: "Yarmouth"})
	require.NoError(t, err)
	assert.JSONEq(t, `"Yarmouth"`, string(bare))

	full, err := json.Marshal(PortRecord{Name: "Cowes", Coords: &Coordinates{Lat: 50.763, Lon: -1.297}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cowes","lat":50.763,"lon":-1.297}`, string(full))
}

func TestPortsBlob_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAll    int
		wantRecent int
		wantCoords  bool
		wantDropped int
	}{
		{"object layout", `{"all":["Poole",{"name":"Cowes","lat":50.763,"lon":-1.297}],"recent":["Cowes"]}`, 2, 1, true, 0},
		{"legacy array", `["Poole","Weymouth"]`, 2, 0, false, 0},
		{"empty object", `{}`, 0, 0, false, 0},
		{"half coordinates stay bare", `{"all":[{"name":"Fowey","lat":50.3}]}`, 1, 0, false, 0},
		{"string coordinates are skipped", `{"all":[{"name":"Poole","lat":"50.7","lon":"-1.9"},"Brest",5],"recent":["Brest",7]}`, 1, 1, false, 3},
		{"malformed legacy entries are skipped", `["Poole",true,{"name":"Cowes","lat":50.763,"lon":-1.297}]`, 2, 0, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var blob PortsBlob
			require.NoError(t, json.Unmarshal([]byte(tt.input), &blob))
			assert.Len(t, blob.All, tt.wantAll)
			assert.Len(t, blob.Recent, tt.wantRecent)
			assert.Equal(t, tt.wantDropped, blob.Dropped)

			hasCoords := false
			for _, p := range blob.All {
				hasCoords = hasCoords || p.HasCoords()
			}
			assert.Equal(t, tt.wantCoords, hasCoords)
		})
	}
}

func TestPortsBlob_UnmarshalRejectsWrongShape(t *testing.T) {
	var blob PortsBlob
	assert.Error(t, json.Unmarshal([]byte(`{not json`), &blob))
	assert.Error(t, json.Unmarshal([]byte(`{"all":5}`), &blob))
}

func TestPassage_Title(t *testing.T) {
	assert.Equal(t, "Lymington → Cherbourg", Passage{Plan: Plan{From: "Lymington", To: "Cherbourg"}}.Title())
	assert.Equal(t, "Lymington", Passage{Plan: Plan{From: "Lymington"}}.Title())
	assert.Equal(t, "Untitled passage", Passage{}.Title())
}

func TestSunTimes_String(t *testing.T) {
	assert.Equal(t, "05:01 / 21:24", SunTimes{Sunrise: "05:01", Sunset: "21:24"}.String())
}
