package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/courtside/scorekeeper/internal/history"
)

// SQLiteStore implements HistoryStore on a key-value table in SQLite.
type SQLiteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewSQLiteStore opens the database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	store := &SQLiteStore{db: db, log: log.WithField("store", "sqlite")}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Check reports whether the database is reachable.
func (s *SQLiteStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadHistory reads the history blob.
func (s *SQLiteStore) LoadHistory(ctx context.Context) ([]history.Entry, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, HistoryKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []history.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return decodeHistory(s.log, "sqlite", data), nil
}

// SaveHistory replaces the history blob inside a transaction.
func (s *SQLiteStore) SaveHistory(ctx context.Context, h []history.Entry) error {
	data, err := encodeHistory(h)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		 	value = excluded.value,
		 	updated_at = excluded.updated_at`,
		HistoryKey, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// UpdatedAt reports when the history was last saved. ok is false when
// nothing has been saved yet.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, HistoryKey).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read history timestamp: %w", err)
	}
	return t, true, nil
}

// putRaw stores an arbitrary blob under the history key. Tests use it to
// simulate a corrupted database.
func (s *SQLiteStore) putRaw(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, HistoryKey, data)
	return err
}
