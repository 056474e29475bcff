package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/fakeyudi/earned/internal/clock"
)

// SQLiteKV keeps keys in a single kv table.
type SQLiteKV struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteKV opens (creating if needed) the database at dbPath. clk
// stamps updated_at; nil means the system clock.
func NewSQLiteKV(dbPath string, clk clock.Clock) (*SQLiteKV, error) {
	if clk == nil {
		clk = clock.System{}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; the tracker never issues concurrent statements.
	db.SetMaxOpenConns(1)

	kv := &SQLiteKV{db: db, clock: clk}
	if err := kv.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLiteKV) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	const stmt = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, key, value, s.clock.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
