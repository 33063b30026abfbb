package geocoding

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/ngmaloney/passage-log/internal/models"
)

// ImportShapefile loads harbour points from a shapefile into the gazetteer
// table. nameField is the DBF column holding the harbour name; non-point
// shapes are imported at the centre of their bounding box. Rows without a
// name or outside the region are skipped. It returns the number imported.
func ImportShapefile(ctx context.Context, db *sql.DB, shapefilePath, nameField string, region Region, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	field := -1
	for i, f := range shape.Fields() {
		if strings.EqualFold(f.String(), nameField) {
			field = i
			break
		}
	}
	if field < 0 {
		return 0, fmt.Errorf("field %q not found in %s", nameField, shapefilePath)
	}

	var entries []Entry
	skipped := 0
	for shape.Next() {
		n, p := shape.Shape()

		name := strings.Trim(shape.ReadAttribute(n, field), " \x00")
		if name == "" {
			skipped++
			continue
		}

		var lat, lon float64
		switch pt := p.(type) {
		case *shp.Point:
			lon, lat = pt.X, pt.Y
		default:
			box := p.BBox()
			lon, lat = (box.MinX+box.MaxX)/2, (box.MinY+box.MaxY)/2
		}

		if !region.Contains(models.Coordinates{Lat: lat, Lon: lon}) {
			logger.Debug("skipping harbour outside region", "name", name, "lat", lat, "lon", lon)
			skipped++
			continue
		}

		entries = append(entries, Entry{
			Key:    NormalizeQuery(name),
			Name:   name,
			Lat:    lat,
			Lon:    lon,
			Source: "shapefile",
		})
	}
	if err := shape.Err(); err != nil {
		return 0, fmt.Errorf("reading shapefile: %w", err)
	}

	if err := SaveEntries(ctx, db, entries); err != nil {
		return 0, err
	}

	logger.Info("imported gazetteer entries", "path", shapefilePath, "imported", len(entries), "skipped", skipped)
	return len(entries), nil
}
