package ports

import (
	"context"
	"errors"
	"sync"

	"github.com/ngmaloney/passage-log/internal/models"
)

// memStore is an in-memory Store for tests
type memStore struct {
	mu      sync.Mutex
	blob    models.PortsBlob
	found   bool
	saves   int
	saveErr error
}

func (m *memStore) LoadPorts(ctx context.Context) (models.PortsBlob, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blob, m.found, nil
}

func (m *memStore) SavePorts(ctx context.Context, blob models.PortsBlob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.blob, m.found = blob, true
	m.saves++
	return nil
}

var errDiskFull = errors.New("disk full")

func coords(lat, lon float64) *models.Coordinates {
	return &models.Coordinates{Lat: lat, Lon: lon}
}
