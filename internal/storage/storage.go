// Package storage provides durable keyed byte storage for the tracker
// record. Two backends exist: a directory of JSON files and a SQLite table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/earned/internal/clock"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a synchronous keyed store. Put replaces the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by kind rooted at dir. clk stamps
// backends that record write times.
func Open(kind, dir string, clk clock.Clock) (KV, error) {
	switch kind {
	case "", BackendFile:
		return NewFileKV(dir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, "earned.db"), clk)
	}
	return nil, fmt.Errorf("unknown store backend %q (want %q or %q)", kind, BackendFile, BackendSQLite)
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
