package geocoding

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadStoredEntries reads imported gazetteer entries from the database
func LoadStoredEntries(ctx context.Context, db *sql.DB) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, name, latitude, longitude, source FROM gazetteer ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying gazetteer: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var source sql.NullString
		if err := rows.Scan(&e.Key, &e.Name, &e.Lat, &e.Lon, &source); err != nil {
			return nil, fmt.Errorf("scanning gazetteer entry: %w", err)
		}
		e.Source = source.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveEntries upserts entries in a single transaction
func SaveEntries(ctx context.Context, db *sql.DB, entries []Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gazetteer (key, name, latitude, longitude, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			source = excluded.source
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		key := e.Key
		if key == "" {
			key = NormalizeQuery(e.Name)
		}
		if key == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, key, e.Name, e.Lat, e.Lon, e.Source); err != nil {
			return fmt.Errorf("inserting %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing gazetteer: %w", err)
	}
	return nil
}

// LoadGazetteer builds the built-in gazetteer extended with stored entries
func LoadGazetteer(ctx context.Context, db *sql.DB) (*Gazetteer, error) {
	stored, err := LoadStoredEntries(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewGazetteer(stored...), nil
}
