package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore persists each record as a JSON file under a base directory.
type FilesystemStore struct {
	baseDir string
}

// NewFilesystemStore ensures the base directory exists and returns a handle.
func NewFilesystemStore(baseDir string) (*FilesystemStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FilesystemStore{baseDir: baseDir}, nil
}

// Get reads the record stored under key, reporting false when absent.
func (s *FilesystemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read record %q: %w", key, err)
	}
	return data, true, nil
}

// Set writes the record under key, replacing any previous value.
func (s *FilesystemStore) Set(_ context.Context, key string, value []byte) error {
	path := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare record directory: %w", err)
	}
	if err := os.WriteFile(path, value, 0o644); err != nil {
		return fmt.Errorf("write record %q: %w", key, err)
	}
	return nil
}

// Delete removes the record if present.
func (s *FilesystemStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

func (s *FilesystemStore) resolve(key string) string {
	name := strings.ReplaceAll(key, ":", "__") + ".json"
	return filepath.Join(s.baseDir, name)
}
