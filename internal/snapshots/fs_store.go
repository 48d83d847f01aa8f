package snapshots

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
)

// FSStore keeps the document as a JSON file under basePath.
type FSStore struct {
	basePath string
	key      string
}

// NewFSStore constructs an FS-backed store rooted at basePath.
func NewFSStore(basePath, key string) *FSStore {
	if key == "" {
		key = DefaultKey
	}
	return &FSStore{basePath: basePath, key: key}
}

func (s *FSStore) Name() string { return "file" }

// Path is the file the document is written to.
func (s *FSStore) Path() string {
	if s == nil {
		return ""
	}
	return DocumentPath(s.basePath, s.key)
}

func (s *FSStore) Load(ctx context.Context) ([]byte, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Save writes through a temp file and rename. Unchanged content is not rewritten.
func (s *FSStore) Save(ctx context.Context, data []byte) error {
	if s == nil {
		return errors.New("snapshot store not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.Path()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FSStore) Clear(ctx context.Context) error {
	if s == nil {
		return errors.New("snapshot store not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
