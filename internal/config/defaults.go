package config

import (
	"path/filepath"
	"time"

	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/spf13/viper"
)

// bindDefaults registers every key with viper so environment variables
// reach keys absent from the config file, and sets the defaults that a
// zero value cannot express.
func bindDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("geocoder.enabled", true)
	v.SetDefault("geocoder.base_url", "")
	v.SetDefault("geocoder.user_agent", "")
	v.SetDefault("geocoder.accept_language", "")
	v.SetDefault("geocoder.timeout", 0)
	v.SetDefault("geocoder.rate_limit", 0)
	v.SetDefault("geocoder.limit", 0)
	v.SetDefault("geocoder.cache_size", 0)
	v.SetDefault("region.viewbox", "")
	v.SetDefault("region.country_codes", []string{})
	v.SetDefault("region.reference_lat", 0)
	v.SetDefault("region.reference_lon", 0)
	v.SetDefault("region.sanity_radius_km", 0)
	v.SetDefault("display.timezone", "")
	v.SetDefault("ports.recent_limit", 0)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.file", "")
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = database.DBPath()
	}

	// Geocoder defaults
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = geocoding.DefaultNominatimURL
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = geocoding.DefaultUserAgent
	}
	if cfg.Geocoder.AcceptLanguage == "" {
		cfg.Geocoder.AcceptLanguage = "en,fr"
	}
	if cfg.Geocoder.Timeout == 0 {
		cfg.Geocoder.Timeout = 10 * time.Second
	}
	if cfg.Geocoder.RateLimit == 0 {
		cfg.Geocoder.RateLimit = 1
	}
	if cfg.Geocoder.Limit == 0 {
		cfg.Geocoder.Limit = 5
	}
	if cfg.Geocoder.CacheSize == 0 {
		cfg.Geocoder.CacheSize = 256
	}

	// Region defaults
	region := geocoding.DefaultRegion()
	if cfg.Region.Viewbox == "" {
		cfg.Region.Viewbox = region.Viewbox
	}
	if len(cfg.Region.CountryCodes) == 0 {
		cfg.Region.CountryCodes = region.CountryCodes
	}
	if cfg.Region.ReferenceLat == 0 && cfg.Region.ReferenceLon == 0 {
		cfg.Region.ReferenceLat = region.RefLat
		cfg.Region.ReferenceLon = region.RefLon
	}
	if cfg.Region.SanityRadiusKm == 0 {
		cfg.Region.SanityRadiusKm = region.RadiusKm
	}

	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "Europe/London"
	}
	if cfg.Ports.RecentLimit == 0 {
		cfg.Ports.RecentLimit = 20
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join("data", "passage-log.log")
	}
}
