package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a Store for an unknown snapshot id.
var ErrNotFound = errors.New("snapshot not found")

// Store persists PNG snapshots by id.
type Store interface {
	Put(ctx context.Context, id string, png []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
}

// DirStore keeps snapshots as files in a local directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".png")
}

func (s *DirStore) Put(ctx context.Context, id string, png []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(id))
}

func (s *DirStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
