package ranges

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each key as a JSON file in a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir. The directory is created
// on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file that holds key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get reads the file for key.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put writes the value to a temp file, fsyncs it and renames it over the
// previous file so readers see either the old or the new value.
func (b *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(value); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", b.Path(key), err)
	}

	// Persist the rename itself. Not every platform allows syncing a directory.
	if d, err := os.Open(b.dir); err == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error {
	return nil
}
