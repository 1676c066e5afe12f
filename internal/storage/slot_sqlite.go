package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dayboard/internal/fsutil"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteSlot stores the state as one row of a kv table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// OpenSQLiteSlot opens (creating if needed) the database at path and returns
// the slot stored under key.
func OpenSQLiteSlot(path, key string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteSlot{db: db, key: key, now: time.Now}, nil
}

func (s *SQLiteSlot) Name() string { return s.key }

func (s *SQLiteSlot) Read() ([]byte, error) {
	return s.get(s.key)
}

func (s *SQLiteSlot) ReadBackup() ([]byte, error) {
	return s.get(s.key + ".bak")
}

func (s *SQLiteSlot) get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write copies the current value to <key>.bak and stores data, in one
// transaction.
func (s *SQLiteSlot) Write(data []byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO kv (key, value, updated_at)
		SELECT ?, value, updated_at FROM kv WHERE key = ?
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key+".bak", s.key); err != nil {
		return fmt.Errorf("backup %s: %w", s.key, err)
	}
	if err := upsert(tx, s.key, string(data), s.now()); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", s.key, err)
	}
	return nil
}

// Quarantine moves the current value to <key>.corrupt.<stamp>. An earlier
// quarantined value is never overwritten.
func (s *SQLiteSlot) Quarantine() (string, error) {
	now := s.now()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}
	defer func() { _ = tx.Rollback() }()

	dest, err := freeKey(tx, s.key+".corrupt.", now)
	if err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}

	var value string
	if err := tx.QueryRow(`SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}
	if err := upsert(tx, dest, value, now); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}
	if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, s.key); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.key, err)
	}
	return "sqlite:" + dest, nil
}

// Close releases the database handle.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

// freeKey returns prefix plus the first stamp from at onward that is not a
// key yet.
func freeKey(tx *sql.Tx, prefix string, at time.Time) (string, error) {
	for range 1000 {
		key := prefix + fsutil.Stamp(at)
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM kv WHERE key = ?`, key).Scan(&n); err != nil {
			return "", err
		}
		if n == 0 {
			return key, nil
		}
		at = at.Add(time.Millisecond)
	}
	return "", fmt.Errorf("no free key near %s", prefix+fsutil.Stamp(at))
}

func upsert(tx *sql.Tx, key, value string, at time.Time) error {
	_, err := tx.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, at.UTC().Format(time.RFC3339Nano))
	return err
}
