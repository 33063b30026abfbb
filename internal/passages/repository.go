package passages

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ngmaloney/passage-log/internal/database"
	"github.com/ngmaloney/passage-log/internal/models"
)

// Repository persists the passages blob in the shared SQLite database
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new passage repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadPassages reads every stored passage. A missing blob is an empty log.
func (r *Repository) LoadPassages(ctx context.Context) ([]models.Passage, error) {
	raw, ok, err := database.GetBlob(ctx, r.db, database.PassagesKey)
	if err != nil || !ok {
		return nil, err
	}

	var passages []models.Passage
	if err := json.Unmarshal([]byte(raw), &passages); err != nil {
		return nil, fmt.Errorf("decoding passages: %w", err)
	}
	return passages, nil
}

// SavePassages replaces the stored passages
func (r *Repository) SavePassages(ctx context.Context, passages []models.Passage) error {
	if passages == nil {
		passages = []models.Passage{}
	}
	data, err := json.Marshal(passages)
	if err != nil {
		return fmt.Errorf("encoding passages: %w", err)
	}
	return database.PutBlob(ctx, r.db, database.PassagesKey, string(data))
}
