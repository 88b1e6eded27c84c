package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each blob in <dir>/<key>.json, matching the layout the
// original deployment used on disk.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (s *FileStore) Put(_ context.Context, key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o644)
}

func (s *FileStore) path(key string) string {
	// Base strips any path separators a hostile key could smuggle in.
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}
