// Package file persists blob values as one JSON object on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"wallet/internal/log"
)

// DefaultFileName is used when the store is opened on a directory.
const DefaultFileName = "wallet.json"

// Store keeps all values in a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New opens a store backed by path, creating its directory if needed.
// The file itself is created on the first Set.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

// NewInDir opens DefaultFileName inside dir.
func NewInDir(dir string) (*Store, error) {
	return New(filepath.Join(dir, DefaultFileName))
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read(ctx)
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

// read loads the whole file. A missing file is empty; a file that is not a
// JSON object is logged and treated as empty so the next write replaces it.
func (s *Store) read(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Ignoring unreadable data file",
			log.FieldPath, s.path,
			log.FieldErrorType, log.ErrorTypeCorruptData,
			log.FieldError, err)
		return map[string]string{}, nil
	}
	return values, nil
}

// write replaces the file via a temp file and rename so a crash never
// leaves a half-written object behind.
func (s *Store) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".wallet-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
