// Package sqlite provides a SQLite-backed snapshot store using the pure-Go
// modernc.org/sqlite driver, so it builds without cgo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sojourn-fsm/sojourn/store"
)

// Store implements store.Store on a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and initializes the schema.
// WAL mode keeps concurrent readers cheap.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id              TEXT PRIMARY KEY,
		state           TEXT NOT NULL,
		elapsed_seconds REAL NOT NULL,
		updated_at      TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the record.
func (s *Store) Save(ctx context.Context, id string, rec store.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, state, elapsed_seconds, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			elapsed_seconds = excluded.elapsed_seconds,
			updated_at = excluded.updated_at`,
		id, rec.State, rec.ElapsedSeconds, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load retrieves the record for id.
func (s *Store) Load(ctx context.Context, id string) (store.Record, error) {
	var rec store.Record
	err := s.db.QueryRowContext(ctx,
		`SELECT state, elapsed_seconds FROM snapshots WHERE id = ?`, id).
		Scan(&rec.State, &rec.ElapsedSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("load snapshot: %w", err)
	}
	return rec, nil
}

// Delete removes the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// List returns all snapshot IDs ordered by ID.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
