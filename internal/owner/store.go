package owner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvickery/hearth-core/internal/scene"
)

// Store defines the interface for owner record persistence.
//
// Records are read and written whole: one row per owner, last writer
// wins. There are no cross-owner transactions.
type Store interface {
	Find(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed owner store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Find returns a single owner record by ID.
func (s *SQLiteStore) Find(ctx context.Context, id string) (*Record, error) {
	const query = `SELECT record FROM owners WHERE id = ?`

	var raw string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying owner %s: %w", id, err)
	}
	return decodeRecord(raw)
}

// Save upserts the owner record as a single JSON document.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding owner %s: %w", rec.ID, err)
	}

	const query = `INSERT INTO owners (id, name, record, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			record = excluded.record,
			updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, string(raw), rec.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving owner %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all owner records ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	const query = `SELECT record FROM owners ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning owner row: %w", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owner rows: %w", err)
	}
	return records, nil
}

// Delete removes a single owner record by ID.
// Returns ErrNotFound if the owner does not exist.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM owners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting owner %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeRecord deserializes the JSON document column.
func decodeRecord(raw string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding owner record: %w", err)
	}
	if rec.SceneOverrides == nil {
		rec.SceneOverrides = make(map[string]scene.Scene)
	}
	return &rec, nil
}
