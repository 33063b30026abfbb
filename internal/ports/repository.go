package ports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/models"
)

// ErrCorruptBlob is returned when the stored ports blob cannot be decoded
var ErrCorruptBlob = errors.New("corrupt ports blob")

// Repository persists the ports blob in the shared SQLite database
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new port repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadPorts reads the ports blob. found is false when nothing has been saved yet.
func (r *Repository) LoadPorts(ctx context.Context) (models.PortsBlob, bool, error) {
	raw, ok, err := database.GetBlob(ctx, r.db, database.PortsKey)
	if err != nil || !ok {
		return models.PortsBlob{}, false, err
	}

	var blob models.PortsBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return models.PortsBlob{}, false, fmt.Errorf("decoding ports: %w: %w", ErrCorruptBlob, err)
	}
	return blob, true, nil
}

// SavePorts writes the ports blob, replacing the previous one.
func (r *Repository) SavePorts(ctx context.Context, blob models.PortsBlob) error {
	if blob.All == nil {
		blob.All = []models.PortRecord{}
	}
	if blob.Recent == nil {
		blob.Recent = []string{}
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encoding ports: %w", err)
	}
	return database.PutBlob(ctx, r.db, database.PortsKey, string(data))
}
