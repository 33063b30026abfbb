package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Region   RegionConfig   `mapstructure:"region"`
	Display  DisplayConfig  `mapstructure:"display"`
	Ports    PortsConfig    `mapstructure:"ports"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// GeocoderConfig holds online geocoding settings
type GeocoderConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent      string        `mapstructure:"user_agent" validate:"required"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit      float64       `mapstructure:"rate_limit" validate:"gt=0,lte=1"`
	Limit          int           `mapstructure:"limit" validate:"min=1,max=50"`
	CacheSize      int           `mapstructure:"cache_size" validate:"min=1"`
}

// RegionConfig bounds online searches and the sanity radius
type RegionConfig struct {
	Viewbox        string   `mapstructure:"viewbox" validate:"required"`
	CountryCodes   []string `mapstructure:"country_codes" validate:"dive,len=2"`
	ReferenceLat   float64  `mapstructure:"reference_lat" validate:"min=-90,max=90"`
	ReferenceLon   float64  `mapstructure:"reference_lon" validate:"min=-180,max=180"`
	SanityRadiusKm float64  `mapstructure:"sanity_radius_km" validate:"gt=0"`
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// PortsConfig holds directory settings
type PortsConfig struct {
	RecentLimit int `mapstructure:"recent_limit" validate:"min=1,max=100"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// File receives logs while the terminal UI owns the screen
	File string `mapstructure:"file"`
}

// GeoRegion converts the region settings for the geocoding package
func (c *Config) GeoRegion() geocoding.Region {
	return geocoding.Region{
		Viewbox:      c.Region.Viewbox,
		CountryCodes: append([]string(nil), c.Region.CountryCodes...),
		RefLat:       c.Region.ReferenceLat,
		RefLon:       c.Region.ReferenceLon,
		RadiusKm:     c.Region.SanityRadiusKm,
	}
}

// NominatimConfig converts the geocoder settings for the Nominatim client
func (c *Config) NominatimConfig() geocoding.NominatimConfig {
	return geocoding.NominatimConfig{
		BaseURL:        c.Geocoder.BaseURL,
		UserAgent:      c.Geocoder.UserAgent,
		AcceptLanguage: c.Geocoder.AcceptLanguage,
		Timeout:        c.Geocoder.Timeout,
		RatePerSecond:  c.Geocoder.RateLimit,
		Limit:          c.Geocoder.Limit,
		Region:         c.GeoRegion(),
	}
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "passage-log"))
		}
	}

	v.SetEnvPrefix("LOGBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{Geocoder: GeocoderConfig{Enabled: true}}
	SetDefaults(cfg)
	return cfg
}
