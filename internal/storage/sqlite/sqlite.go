// Package sqlite implements trip storage on a local SQLite database. Trips
// are stored as JSON documents; only the columns the collection queries need
// (id, position, updated time) are broken out.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tripcraft/tripcraft/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	updated_at TEXT NOT NULL,
	data       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trips_position ON trips(position);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const currentTripKey = "current_trip_id"

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// New opens (creating if needed) the trip database at path.
func New(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// WAL mode so a reading CLI and a running server can share the file.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ListTrips returns every saved trip, newest position first. A row whose
// JSON no longer decodes is logged and skipped; one corrupt row must not
// take the whole collection down at startup.
func (s *SQLiteStorage) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM trips ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []*types.Trip
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		var trip types.Trip
		if err := json.Unmarshal([]byte(data), &trip); err != nil {
			slog.Warn("skipping corrupt trip row", "id", id, "error", err)
			continue
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// GetTrip returns the trip with the given id, or nil if absent.
func (s *SQLiteStorage) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM trips WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip %s: %w", id, err)
	}
	var trip types.Trip
	if err := json.Unmarshal([]byte(data), &trip); err != nil {
		return nil, fmt.Errorf("failed to decode trip %s: %w", id, err)
	}
	return &trip, nil
}

// UpsertTrip writes a full snapshot of the trip. An existing id keeps its
// position in the collection; a new id is prepended (lowest position).
func (s *SQLiteStorage) UpsertTrip(ctx context.Context, trip *types.Trip) error {
	if trip == nil || trip.ID == "" {
		return fmt.Errorf("trip with id is required")
	}
	data, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("failed to encode trip %s: %w", trip.ID, err)
	}
	updatedAt := trip.LastUpdated.UTC().Format("2006-01-02T15:04:05.000Z07:00")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE trips SET data = ?, updated_at = ? WHERE id = ?`,
		string(data), updatedAt, trip.ID)
	if err != nil {
		return fmt.Errorf("failed to update trip %s: %w", trip.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		// New trip goes to the front of the collection.
		var minPos sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MIN(position) FROM trips`).Scan(&minPos); err != nil {
			return fmt.Errorf("failed to find front position: %w", err)
		}
		pos := int64(0)
		if minPos.Valid {
			pos = minPos.Int64 - 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trips (id, position, updated_at, data) VALUES (?, ?, ?, ?)`,
			trip.ID, pos, updatedAt, string(data)); err != nil {
			return fmt.Errorf("failed to insert trip %s: %w", trip.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteTrip removes a trip; deleting an absent id is a no-op.
func (s *SQLiteStorage) DeleteTrip(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete trip %s: %w", id, err)
	}
	return nil
}

// CurrentTripID returns the remembered current trip id, or "".
func (s *SQLiteStorage) CurrentTripID(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, currentTripKey).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current trip id: %w", err)
	}
	return value, nil
}

// SetCurrentTripID records the current trip id; "" clears it.
func (s *SQLiteStorage) SetCurrentTripID(ctx context.Context, id string) error {
	if id == "" {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, currentTripKey); err != nil {
			return fmt.Errorf("failed to clear current trip id: %w", err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		currentTripKey, id)
	if err != nil {
		return fmt.Errorf("failed to set current trip id: %w", err)
	}
	return nil
}
