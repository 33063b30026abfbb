package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/passage-log/internal/config"
	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/passages"
	"github.com/ngmaloney/passage-log/internal/ports"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/ngmaloney/passage-log/internal/suncalc"
)

// App holds the wired components shared by every command
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Logger    *slog.Logger
	Clock     clockwork.Clock
	Ports     *ports.Service
	Gazetteer *geocoding.Gazetteer
	Resolver  *resolver.Resolver
	Sun       *suncalc.Calculator
	Passages  *passages.Service

	closers []io.Closer
}

// openApp loads configuration and wires storage, directory, gazetteer,
// geocoder, resolver and passages. logTo receives log output; nil sends it
// to the configured log file.
func openApp(ctx context.Context, configPath string, clock clockwork.Clock, logTo io.Writer) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Clock: clock}
	if logTo == nil {
		f, err := config.OpenLogFile(cfg.Logging)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, f)
		logTo = f
	}
	app.Logger = config.NewLogger(cfg.Logging, logTo)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.DB = db
	app.closers = append(app.closers, db)

	dir := ports.NewDirectory(ports.NewRepository(db),
		ports.WithRecentLimit(cfg.Ports.RecentLimit),
		ports.WithLogger(app.Logger),
	)
	if err := dir.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("loading ports: %w", err)
	}
	region := cfg.GeoRegion()
	app.Ports = ports.NewService(dir, region)

	gaz, err := geocoding.LoadGazetteer(ctx, db)
	if err != nil {
		app.Logger.Warn("stored gazetteer unavailable, using built-in entries", "error", err)
		gaz = geocoding.NewGazetteer()
	}
	app.Gazetteer = gaz

	var geocoder geocoding.Geocoder
	if cfg.Geocoder.Enabled {
		online := geocoding.NewNominatim(cfg.NominatimConfig(), app.Logger)
		cached, err := geocoding.NewCachedGeocoder(online, cfg.Geocoder.CacheSize)
		if err != nil {
			app.Close()
			return nil, err
		}
		geocoder = cached
	}
	app.Resolver = resolver.New(app.Ports, gaz, geocoder, region, app.Logger)

	sun, err := suncalc.NewForZone(cfg.Display.Timezone)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sun = sun

	app.Passages = passages.NewService(passages.NewRepository(db), app.Resolver, sun, clock, app.Logger)
	if err := app.Passages.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("loading passages: %w", err)
	}

	app.Logger.Debug("application ready",
		"db", cfg.Database.Path,
		"gazetteer_entries", gaz.Len(),
		"geocoder", cfg.Geocoder.Enabled,
		"tiers", app.Resolver.Tiers(),
	)
	return app, nil
}

// Close releases everything opened by openApp
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
