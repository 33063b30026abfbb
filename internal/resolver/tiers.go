package resolver

import (
	"context"
	"fmt"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/ports"
)

// Sources reported in models.ResolvedCoordinate.Source
const (
	SourceDirectory       = "directory"
	SourceGazetteer       = "gazetteer"
	SourceGazetteerPrefix = "gazetteer-prefix"
	SourceOnline          = "online"
	SourceManual          = "manual"
)

// Tier is one resolution strategy. Tiers are tried in order and the first
// hit wins.
type Tier struct {
	Name   string
	Lookup func(ctx context.Context, name string) (models.ResolvedCoordinate, bool)
}

// DirectoryTier matches stored records that carry coordinates, first by
// name and then by query key, so "Hamble Marina" finds a stored "Hamble".
func DirectoryTier(dir *ports.Directory) Tier {
	return Tier{
		Name: SourceDirectory,
		Lookup: func(_ context.Context, name string) (models.ResolvedCoordinate, bool) {
			rec, ok := dir.FindByName(name)
			if !ok || !rec.HasCoords() {
				rec, ok = dir.FindWithCoords(name, geocoding.NormalizeQuery)
			}
			if !ok {
				return models.ResolvedCoordinate{}, false
			}
			return models.ResolvedCoordinate{
				Name:   rec.Name,
				Lat:    rec.Coords.Lat,
				Lon:    rec.Coords.Lon,
				Source: SourceDirectory,
			}, true
		},
	}
}

// GazetteerTier matches the offline table by exact normalized key
func GazetteerTier(g *geocoding.Gazetteer) Tier {
	return Tier{
		Name: SourceGazetteer,
		Lookup: func(_ context.Context, name string) (models.ResolvedCoordinate, bool) {
			e, ok := g.Lookup(name)
			if !ok {
				return models.ResolvedCoordinate{}, false
			}
			return fromEntry(name, e, SourceGazetteer), true
		},
	}
}

// GazetteerPrefixTier matches the offline table on word-aligned prefixes
func GazetteerPrefixTier(g *geocoding.Gazetteer) Tier {
	return Tier{
		Name: SourceGazetteerPrefix,
		Lookup: func(_ context.Context, name string) (models.ResolvedCoordinate, bool) {
			e, ok := g.Match(name)
			if !ok {
				return models.ResolvedCoordinate{}, false
			}
			return fromEntry(name, e, SourceGazetteerPrefix), true
		},
	}
}

func fromEntry(name string, e geocoding.Entry, source string) models.ResolvedCoordinate {
	return models.ResolvedCoordinate{Name: name, Lat: e.Lat, Lon: e.Lon, Source: source}
}

// QueryVariants returns the online search strings tried for a name, in order
func QueryVariants(name string) []string {
	q := geocoding.NormalizeQuery(name)
	if q == "" {
		return nil
	}
	return []string{
		q + " harbour",
		q + " port",
		"port de " + q,
		q + " marina",
		q + ", france",
		q + ", uk",
	}
}

// OnlineTier searches the geocoder with each query variant and accepts the
// first candidate inside the region's sanity radius. Failed searches count
// as no match.
func (r *Resolver) OnlineTier() Tier {
	return Tier{
		Name: SourceOnline,
		Lookup: func(ctx context.Context, name string) (models.ResolvedCoordinate, bool) {
			if r.geocoder == nil {
				return models.ResolvedCoordinate{}, false
			}
			for _, query := range QueryVariants(name) {
				if ctx.Err() != nil {
					return models.ResolvedCoordinate{}, false
				}
				candidates, err := r.geocoder.Search(ctx, query)
				if err != nil {
					r.logger.Warn("geocode failed", "query", query, "error", err)
					continue
				}
				for _, c := range candidates {
					pos := models.Coordinates{Lat: c.Lat, Lon: c.Lon}
					if !r.region.Contains(pos) {
						r.logger.Info("rejected distant candidate",
							"query", query,
							"candidate", c.DisplayName,
							"distance_km", fmt.Sprintf("%.0f", r.region.DistanceKm(pos)))
						continue
					}
					return models.ResolvedCoordinate{
						Name:   name,
						Lat:    c.Lat,
						Lon:    c.Lon,
						Source: SourceOnline,
						Label:  c.DisplayName,
					}, true
				}
			}
			return models.ResolvedCoordinate{}, false
		},
	}
}
