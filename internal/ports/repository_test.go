package ports

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_RoundTripThroughDirectory(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	repo := NewRepository(db)
	_, found, err := repo.LoadPorts(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	d := NewDirectory(repo)
	require.NoError(t, d.Load(ctx))
	d.Upsert(ctx, "St Malo", coords(48.649, -2.025))
	d.Upsert(ctx, "Fowey", nil)
	d.Remember(ctx, "St Malo")

	reloaded := NewDirectory(repo)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, d.ListAll(), reloaded.ListAll())
	assert.Equal(t, []string{"St Malo"}, reloaded.Recent())
}

func TestRepository_StoredLayout(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	repo := NewRepository(db)
	require.NoError(t, repo.SavePorts(ctx, models.PortsBlob{
		All: []models.PortRecord{{Name: "Fowey"}, {Name: "Poole", Coords: coords(50.714, -1.985)}},
	}))

	raw, ok, err := database.GetBlob(ctx, db, database.PortsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"all":["Fowey",{"name":"Poole","lat":50.714,"lon":-1.985}],"recent":[]}`, raw)
}

func TestRepository_LegacyArray(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, database.PutBlob(ctx, db, database.PortsKey, `["Cowes",{"name":"Brest","lat":48.39,"lon":-4.487}]`))

	blob, found, err := NewRepository(db).LoadPorts(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, blob.All, 2)
	assert.Empty(t, blob.Recent)
}

func TestDirectory_UnreadableBlobLoadsEmptyAndWarns(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		wantAll []string
		wantLog string
	}{
		{"not json", `{not json`, nil, "ignoring unreadable ports blob"},
		{"wrong shape", `{"all":5}`, nil, "ignoring unreadable ports blob"},
		{"string coordinates", `{"all":[{"name":"Poole","lat":"50.7","lon":"-1.9"},"Brest"],"recent":["Brest"]}`, []string{"Brest"}, "skipped malformed port entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := database.Open(":memory:")
			require.NoError(t, err)
			defer db.Close()
			ctx := context.Background()

			require.NoError(t, database.PutBlob(ctx, db, database.PortsKey, tt.blob))
			_, _, err = NewRepository(db).LoadPorts(ctx)
			if tt.wantAll == nil {
				assert.ErrorIs(t, err, ErrCorruptBlob)
			}

			var logs bytes.Buffer
			d := NewDirectory(NewRepository(db), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
			require.NoError(t, d.Load(ctx))

			var names []string
			for _, p := range d.ListAll() {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantAll, names)
			assert.Contains(t, logs.String(), tt.wantLog)

			d.Upsert(ctx, "Poole", &models.Coordinates{Lat: 50.714, Lon: -1.985})
			_, ok := d.FindByName("poole")
			assert.True(t, ok, "the directory stays usable")
		})
	}
}
