package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend is the secondary storage area: a JSON object file mapping keys
// to values. It covers environments where the SQLite database cannot be
// opened.
type FileBackend struct {
	path string
}

// NewFileBackend constructs a file backend at the given path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Name identifies the backend in log output.
func (b *FileBackend) Name() string { return "file" }

// Get returns the value for key and whether it was present.
func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	values, err := b.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set stores the value for key, replacing any previous value.
func (b *FileBackend) Set(_ context.Context, key, value string) error {
	values, err := b.read()
	if err != nil {
		return err
	}
	values[key] = value
	return b.write(values)
}

// Remove deletes the key, tolerating absence.
func (b *FileBackend) Remove(_ context.Context, key string) error {
	values, err := b.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return b.write(values)
}

// Path returns the state file location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	return values, nil
}

func (b *FileBackend) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
