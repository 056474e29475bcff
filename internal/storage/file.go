package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	dir string
}

// NewFileKV creates dir if needed and returns a FileKV rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Path returns the file backing key.
func (f *FileKV) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes value atomically via a temp file + os.Rename in the same directory.
func (f *FileKV) Put(_ context.Context, key string, value []byte) (err error) {
	if err := validateKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	if err = os.Rename(tmpName, f.Path(key)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(f.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error { return nil }

// Watch calls onChange with the new contents each time key is replaced by
// someone else, until ctx is cancelled. Writes whose bytes equal skip(), the
// value this process last wrote, are ignored. The directory is watched rather
// than the file because Put swaps the inode on every write.
func (f *FileKV) Watch(ctx context.Context, key string, skip func() []byte, onChange func([]byte)) error {
	if err := validateKey(key); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return fmt.Errorf("watching %s: %w", f.dir, err)
	}
	target := f.Path(key)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			data, err := os.ReadFile(target)
			if err != nil {
				continue // replaced again mid-read; the next event covers it
			}
			if skip != nil && bytes.Equal(data, skip()) {
				continue
			}
			onChange(data)

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}
