// Package store persists all application state in a single SQLite
// database: a plain key/value table mirroring the storage model of the
// first mobile release. The Gateway composes the codec and cipher into
// the load/save pipeline for the birthday collection.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tartampluch/go-wishly/internal/config"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// KV is the SQLite-backed key/value store. All values are strings; the
// encrypted collection is stored as its base64 form.
type KV struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*KV, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	return &KV{conn: conn}, nil
}

// Close closes the underlying database connection.
func (kv *KV) Close() error {
	return kv.conn.Close()
}

// Get returns the value for key and whether it was present.
func (kv *KV) Get(key string) (string, bool, error) {
	var value string
	err := kv.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	return value, true, nil
}

// Set writes key to value, replacing any previous value.
func (kv *KV) Set(key, value string) error {
	_, err := kv.conn.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (kv *KV) Delete(key string) error {
	if _, err := kv.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}
