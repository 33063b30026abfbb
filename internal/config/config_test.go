package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "passage-log.db"), cfg.Database.Path)
	assert.True(t, cfg.Geocoder.Enabled)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocoder.BaseURL)
	assert.Equal(t, "en,fr", cfg.Geocoder.AcceptLanguage)
	assert.Equal(t, 10*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, 1.0, cfg.Geocoder.RateLimit)
	assert.Equal(t, 5, cfg.Geocoder.Limit)
	assert.Equal(t, 256, cfg.Geocoder.CacheSize)
	assert.Equal(t, "-6.8,53.5,3.5,45.5", cfg.Region.Viewbox)
	assert.Equal(t, []string{"gb", "fr"}, cfg.Region.CountryCodes)
	assert.Equal(t, 50.76, cfg.Region.ReferenceLat)
	assert.Equal(t, -1.54, cfg.Region.ReferenceLon)
	assert.Equal(t, 1500.0, cfg.Region.SanityRadiusKm)
	assert.Equal(t, "Europe/London", cfg.Display.Timezone)
	assert.Equal(t, 20, cfg.Ports.RecentLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/logbook.db
geocoder:
  enabled: false
  timeout: 3s
  limit: 8
ports:
  recent_limit: 5
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/logbook.db", cfg.Database.Path)
	assert.False(t, cfg.Geocoder.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, 8, cfg.Geocoder.Limit)
	assert.Equal(t, 5, cfg.Ports.RecentLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")
	t.Setenv("LOGBOOK_LOGGING_LEVEL", "error")
	t.Setenv("LOGBOOK_DISPLAY_TIMEZONE", "Europe/Paris")
	t.Setenv("LOGBOOK_GEOCODER_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "Europe/Paris", cfg.Display.Timezone)
	assert.False(t, cfg.Geocoder.Enabled)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad log level", "logging:\n  level: loud\n", "Config.Logging.Level"},
		{"bad format", "logging:\n  format: xml\n", "Config.Logging.Format"},
		{"bad timezone", "display:\n  timezone: Mars/Olympus\n", "Config.Display.Timezone"},
		{"bad url", "geocoder:\n  base_url: not a url\n", "Config.Geocoder.BaseURL"},
		{"bad country code", "region:\n  country_codes: [gbr]\n", "Config.Region.CountryCodes[0]"},
		{"recent limit too high", "ports:\n  recent_limit: 1000\n", "Config.Ports.RecentLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))
	assert.True(t, cfg.Geocoder.Enabled)

	region := cfg.GeoRegion()
	assert.Equal(t, cfg.Region.Viewbox, region.Viewbox)
	assert.Equal(t, 1500.0, region.RadiusKm)

	nc := cfg.NominatimConfig()
	assert.Equal(t, "PassageLog/1.0", nc.UserAgent)
	assert.Equal(t, 5, nc.Limit)
	assert.Equal(t, region, nc.Region)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "port", "Cowes")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"port":"Cowes"`)

	buf.Reset()
	NewLogger(LoggingConfig{Level: "debug", Format: "text"}, &buf).Debug("plain")
	assert.True(t, strings.Contains(buf.String(), "msg=plain"))
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	f, err := OpenLogFile(LoggingConfig{File: path})
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
