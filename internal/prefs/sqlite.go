package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteStore keeps preferences in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and its schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS column_prefs (
        owner TEXT NOT NULL,
        table_key TEXT NOT NULL,
        visibility TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (owner, table_key)
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating column_prefs table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, owner, tableKey string) ([]byte, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT visibility FROM column_prefs WHERE owner = ? AND table_key = ?", owner, tableKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading column_prefs: %w", err)
	}
	return []byte(blob), nil
}

func (s *SQLiteStore) Put(ctx context.Context, owner, tableKey string, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO column_prefs (owner, table_key, visibility, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner, table_key) DO UPDATE SET visibility = excluded.visibility, updated_at = CURRENT_TIMESTAMP`,
		owner, tableKey, string(blob))
	if err != nil {
		return fmt.Errorf("writing column_prefs: %w", err)
	}
	return nil
}

// Ping checks the database is reachable, for the health endpoint.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
