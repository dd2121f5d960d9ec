package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalImageStore keeps images under a directory served at baseURL.
type LocalImageStore struct {
	root    string
	baseURL string
}

var _ ImageStore = (*LocalImageStore)(nil)

func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageStore) Root() string {
	return s.root
}

func (s *LocalImageStore) path(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes media root", key)
	}
	return p, nil
}

func (s *LocalImageStore) Save(_ context.Context, key string, data []byte, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// Delete removes the file at key. A missing file is not an error.
func (s *LocalImageStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

func (s *LocalImageStore) URL(key string) string {
	return s.baseURL + "/" + key
}
