package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name           TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL,
	body           BLOB NOT NULL,
	updated_at     TEXT NOT NULL
);
`

// SQLiteEngine stores every collection as one row of a single database
// file.
type SQLiteEngine struct {
	db   *sql.DB
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteEngine, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; the planner never needs more.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	e := &SQLiteEngine{db: db, now: time.Now}
	if err := e.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func (e *SQLiteEngine) migrate() error {
	if _, err := e.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func (e *SQLiteEngine) Read(name string) ([]byte, error) {
	var body []byte
	err := e.db.QueryRow(`SELECT body FROM collections WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return body, nil
}

func (e *SQLiteEngine) Write(name string, data []byte) error {
	_, err := e.db.Exec(`
		INSERT INTO collections (name, schema_version, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		name, SchemaVersion, data, e.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func (e *SQLiteEngine) Close() error {
	return e.db.Close()
}
