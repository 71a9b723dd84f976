package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// JSONStore is a whole-file JSON object keyed by user id.
// Every read loads the file; every write rewrites it. A missing file reads
// as an empty map and an unparsable file is reset to "{}".
type JSONStore[T any] struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewJSONStore creates a store for the file at path
func NewJSONStore[T any](path string, logger *zap.Logger) *JSONStore[T] {
	return &JSONStore[T]{path: path, logger: logger}
}

// Load returns the current contents of the store
func (s *JSONStore[T]) Load() (map[string]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update runs fn against the current contents under the store lock and writes
// the map back when fn reports a change.
func (s *JSONStore[T]) Update(fn func(data map[string]T) (changed bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}
	if !fn(data) {
		return false, nil
	}
	if err := s.write(data); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStore[T]) load() (map[string]T, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	data := map[string]T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		s.logger.Warn("Store file is corrupt, resetting",
			zap.String("path", s.path),
			zap.Error(err))
		data = map[string]T{}
		if werr := s.write(data); werr != nil {
			return nil, werr
		}
	}
	return data, nil
}

func (s *JSONStore[T]) write(data map[string]T) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}
	return writeFileAtomic(s.path, encoded)
}

// writeFileAtomic writes data to a temp file in the same directory and renames it over path
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
