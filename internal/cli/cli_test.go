package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a config file pointing at a throwaway database with the online
// geocoder switched off
type testEnv struct {
	dir    string
	config string
	clock  *clockwork.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`database:
  path: %s
geocoder:
  enabled: false
logging:
  level: error
  file: %s
`, filepath.Join(dir, "test.db"), filepath.Join(dir, "test.log"))
	require.NoError(t, os.WriteFile(config, []byte(body), 0644))

	return &testEnv{
		dir:    dir,
		config: config,
		clock:  clockwork.NewFakeClockAt(time.Date(2024, 6, 21, 9, 0, 0, 0, time.UTC)),
	}
}

// run executes one command line and returns its stdout
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e.clock)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, "passage-log %s", strings.Join(args, " "))
	return out
}

func TestPortsCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "ports", "list")
	assert.Contains(t, out, "No saved ports")

	out = env.mustRun(t, "ports", "add", "Bembridge", "50 41.2N", "1 05.5W")
	assert.Contains(t, out, "✓ Saved Bembridge 50°41.200'N  1°05.500'W")

	out = env.mustRun(t, "ports", "add", "Newtown Creek")
	assert.Contains(t, out, "✓ Saved Newtown Creek -")

	out = env.mustRun(t, "ports", "list")
	assert.Contains(t, out, "Bembridge")
	assert.Contains(t, out, "Newtown Creek")
	assert.Less(t, strings.Index(out, "Bembridge"), strings.Index(out, "Newtown Creek"))

	out = env.mustRun(t, "ports", "suggest", "bem")
	assert.Equal(t, "Bembridge\n", out)

	out = env.mustRun(t, "ports", "suggest")
	assert.Equal(t, "Newtown Creek\nBembridge\n", out, "recent ports, most recent first")

	out = env.mustRun(t, "ports", "remove", "bembridge")
	assert.Contains(t, out, "✓ Removed bembridge")

	out = env.mustRun(t, "ports", "list")
	assert.NotContains(t, out, "Bembridge")

	_, err := env.run(t, "", "ports", "remove", "Bembridge")
	assert.ErrorContains(t, err, "port not found")
}

func TestPortsAddRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"fragment", []string{"ports", "add", "Ca"}, "not a plausible port name"},
		{"bad latitude", []string{"ports", "add", "Bembridge", "95", "-1"}, "invalid coordinate"},
		{"far away", []string{"ports", "add", "Boston", "42.36", "-71.05"}, "sanity radius"},
		{"missing longitude", []string{"ports", "add", "Bembridge", "50.7"}, "expected NAME or NAME LAT LON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestWestLongitudesAreArguments(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "ports", "add", "Yarmouth", "50.706", "-1.5")
	assert.Contains(t, out, "✓ Saved Yarmouth 50°42.360'N  1°30.000'W")

	out = env.mustRun(t, "sun", "2024-12-21", "50.758", "-1.540")
	assert.Contains(t, out, "Sunrise: 08:06")

	_, err := env.run(t, "", "sun", "2024-06-21", "-95", "-1.540")
	assert.ErrorContains(t, err, "invalid coordinate")
}

func TestPortsResolve(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "ports", "resolve", "Cowes")
	assert.Contains(t, out, "Cowes  50°45.780'N  1°17.820'W")
	assert.Contains(t, out, "[gazetteer]")

	_, err := env.run(t, "", "ports", "resolve", "Bembridge")
	assert.ErrorContains(t, err, "no match")
}

func TestPortsResolve_InteractiveManualEntry(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "m\n50 41.2N\n1 05.5W\n", "ports", "resolve", "Bembridge", "--persist", "--interactive")
	require.NoError(t, err)
	assert.Contains(t, out, `No match for "Bembridge"`)
	assert.Contains(t, out, "[manual]")

	out = env.mustRun(t, "ports", "list")
	assert.Contains(t, out, "Bembridge")

	// Now stored, so no decision is needed
	out = env.mustRun(t, "ports", "resolve", "bembridge")
	assert.Contains(t, out, "[directory]")
}

func TestPortsResolve_InteractiveDecline(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "n\n", "ports", "resolve", "Bembridge", "--persist", "--interactive")
	assert.ErrorContains(t, err, "no match")

	out := env.mustRun(t, "ports", "list")
	assert.Contains(t, out, "No saved ports")
}

func TestPortsResolve_ManualWithoutPersistIsNotSaved(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "m\n50.687\n-1.092\n", "ports", "resolve", "Bembridge", "--interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "[manual]")

	out = env.mustRun(t, "ports", "list")
	assert.Contains(t, out, "No saved ports")
}

func TestSunCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "sun", "2024-06-21", "50.758", "-1.540")
	assert.Contains(t, out, "Sunrise: 04:53")
	assert.Contains(t, out, "Sunset:  21:23")

	out = env.mustRun(t, "sun", "--port", "Lymington", "--date", "2024-12-21")
	assert.Contains(t, out, "Lymington 2024-12-21")
	assert.Contains(t, out, "Sunrise: 08:06")
	assert.Contains(t, out, "Sunset:  16:03")

	out = env.mustRun(t, "sun", "--port", "Lymington")
	assert.Contains(t, out, "Lymington 2024-06-21", "date defaults to today")

	_, err := env.run(t, "", "sun", "2024-12-21", "89.9", "0")
	assert.ErrorIs(t, err, errNoSunEvents)

	_, err = env.run(t, "", "sun", "--port", "Atlantis")
	assert.ErrorContains(t, err, "no match")

	_, err = env.run(t, "", "sun", "2024-06-21")
	assert.ErrorContains(t, err, "expected DATE LAT LON")
}

func TestPassageCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "passage", "new", "--from", "Lymington", "--to", "La Rochelle", "--date", "2024-06-21")
	assert.Contains(t, out, "Lymington → La Rochelle")
	assert.Contains(t, out, "04:53 / 21:00")

	firstLine := strings.SplitN(out, "\n", 2)[0]
	require.True(t, strings.HasPrefix(firstLine, "✓ Created "), firstLine)
	id := strings.TrimPrefix(firstLine, "✓ Created ")
	require.Len(t, id, 36)

	out = env.mustRun(t, "passage", "new", "--from", "Cowes")
	assert.Contains(t, out, "Date:            2024-06-21")

	out = env.mustRun(t, "passage", "list")
	assert.Contains(t, out, "Lymington → La Rochelle")
	assert.Contains(t, out, id[:8])

	out = env.mustRun(t, "passage", "sun", id[:8])
	assert.Contains(t, out, "04:53 / 21:00")

	out = env.mustRun(t, "passage", "edit", id[:8], "--to", "local", "--skipper", "Jo")
	assert.Contains(t, out, "✓ Updated "+id[:8])
	assert.Contains(t, out, "Lymington → local")
	assert.Contains(t, out, "04:53 / 21:23")

	out = env.mustRun(t, "passage", "edit", id, "--crew", "Sam")
	assert.Contains(t, out, "04:53 / 21:23")

	env.mustRun(t, "passage", "delete", id)
	out = env.mustRun(t, "passage", "list")
	assert.NotContains(t, out, "La Rochelle")

	_, err := env.run(t, "", "passage", "sun", id)
	assert.ErrorContains(t, err, "passage not found")
}

func TestGazetteerImport(t *testing.T) {
	env := newTestEnv(t)

	base := filepath.Join(env.dir, "harbours")
	w, err := shp.Create(base+".shp", shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("HARBOUR", 40)}))
	n := w.Write(&shp.Point{X: -1.090, Y: 50.690})
	require.NoError(t, w.WriteAttribute(int(n), 0, "Bembridge"))
	w.Close()
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}

	out := env.mustRun(t, "gazetteer", "import", base+".shp", "--name-field", "HARBOUR")
	assert.Contains(t, out, "✓ Imported 1 harbours")

	out = env.mustRun(t, "ports", "resolve", "Bembridge")
	assert.Contains(t, out, "[gazetteer]")

	out = env.mustRun(t, "gazetteer", "list")
	assert.Contains(t, out, "Bembridge")
	assert.Contains(t, out, "shapefile")
}
