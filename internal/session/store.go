package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fakeyudi/earned/internal/storage"
)

// ErrNoSession is returned by Load when nothing has been persisted yet.
var ErrNoSession = errors.New("no saved session")

// RecordKey is the storage key of the single session record.
const RecordKey = "earningsTracker"

// SessionStore persists a WorkSession.
type SessionStore interface {
	Save(ctx context.Context, s *WorkSession, today Date) error
	// Load returns ErrNoSession if none exists and *DecodeError when the
	// stored record is unreadable. Field-level problems come back as warnings.
	Load(ctx context.Context) (*WorkSession, []FieldWarning, error)
	Delete(ctx context.Context) error
}

// Store is the SessionStore backed by a storage.KV.
type Store struct {
	kv storage.KV

	mu          sync.Mutex
	lastWritten []byte
}

// NewStore returns a Store writing RecordKey into kv.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// DataDir returns the earned-specific XDG data directory.
// Path: $XDG_DATA_HOME/earned or ~/.local/share/earned
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "earned"), nil
}

// Save stamps s.LastSaveDate with today and writes the full record.
func (st *Store) Save(ctx context.Context, s *WorkSession, today Date) error {
	s.LastSaveDate = today
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err := st.kv.Put(ctx, RecordKey, data); err != nil {
		return err
	}
	st.mu.Lock()
	st.lastWritten = data
	st.mu.Unlock()
	return nil
}

func (st *Store) Load(ctx context.Context) (*WorkSession, []FieldWarning, error) {
	data, err := st.kv.Get(ctx, RecordKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, err
	}
	return Decode(data)
}

func (st *Store) Delete(ctx context.Context) error {
	return st.kv.Delete(ctx, RecordKey)
}

// LastWritten returns the bytes of this process's most recent Save.
func (st *Store) LastWritten() []byte {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastWritten
}

// KV exposes the underlying storage.
func (st *Store) KV() storage.KV {
	return st.kv
}
