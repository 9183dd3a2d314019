package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// File stores each key as a JSON document <dir>/<key>.json. Writes go to a
// temporary file that is renamed into place, so a crash never leaves a
// partially written record.
type File[C any] struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a File store rooted at dir. The directory is created on
// first save.
func NewFile[C any](dir string) *File[C] {
	return &File[C]{dir: dir}
}

// Dir returns the directory holding the records.
func (s *File[C]) Dir() string { return s.dir }

func (s *File[C]) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *File[C]) Load(ctx context.Context, key string) (*C, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, err := os.ReadFile(p)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store load %q: %w", key, err)
	}

	var val C
	if err := json.Unmarshal(data, &val); err != nil {
		return nil, fmt.Errorf("file store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

func (s *File[C]) Save(ctx context.Context, key string, val *C) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if val == nil {
		return s.Delete(ctx, key)
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return fmt.Errorf("file store marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("file store mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("file store save %q: %w", key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store close %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("file store rename %q: %w", key, err)
	}
	return nil
}

func (s *File[C]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file store delete %q: %w", key, err)
	}
	return nil
}

var _ Store[any] = (*File[any])(nil)
