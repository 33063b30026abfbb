package ports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
)

var (
	// ErrImplausibleName is returned when a name fails IsPlausiblePortName.
	ErrImplausibleName = errors.New("not a plausible port name")
	// ErrNotFound is returned when no directory record matches a name.
	ErrNotFound = errors.New("port not found")
)

// Service is the explicit-save path into the directory used by the CLI,
// the ports manager and the resolver's confirmation step.
type Service struct {
	dir    *Directory
	region geocoding.Region
}

// NewService creates a new port service
func NewService(dir *Directory, region geocoding.Region) *Service {
	return &Service{dir: dir, region: region}
}

// Directory returns the underlying directory
func (s *Service) Directory() *Directory {
	return s.dir
}

// Save validates name and coords, upserts the record and moves it to the
// front of the MRU list.
func (s *Service) Save(ctx context.Context, name string, coords *models.Coordinates) (models.PortRecord, error) {
	name = strings.TrimSpace(name)
	if !IsPlausiblePortName(name) {
		return models.PortRecord{}, fmt.Errorf("%q: %w", name, ErrImplausibleName)
	}
	if coords != nil {
		if err := s.region.Check(*coords); err != nil {
			return models.PortRecord{}, fmt.Errorf("checking %s: %w", name, err)
		}
	}

	s.dir.Upsert(ctx, name, coords)
	s.dir.Remember(ctx, name)

	rec, _ := s.dir.FindByName(name)
	return rec, nil
}

// AddManual parses user-entered coordinates and saves the port. Blank lat
// and lon save a bare name.
func (s *Service) AddManual(ctx context.Context, name, lat, lon string) (models.PortRecord, error) {
	if strings.TrimSpace(lat) == "" && strings.TrimSpace(lon) == "" {
		return s.Save(ctx, name, nil)
	}

	coords, err := geocoding.ParseLatLon(lat, lon)
	if err != nil {
		return models.PortRecord{}, fmt.Errorf("parsing coordinates: %w", err)
	}
	return s.Save(ctx, name, &coords)
}

// Remove deletes a port and its MRU entry.
func (s *Service) Remove(ctx context.Context, name string) error {
	if !s.dir.Remove(ctx, name) {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
