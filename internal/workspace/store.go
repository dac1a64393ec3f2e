// Package workspace provides the encoder's private scratch storage. Input
// and output bytes pass through it under fixed logical names; nothing in it
// outlives the job.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a per-job scratch area keyed by logical file names.
type Store struct {
	dir string
}

// New creates a store rooted in a fresh temporary directory.
func New() (*Store, error) {
	dir, err := os.MkdirTemp("", "video-compressor-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Write stores bytes under a logical name.
func (s *Store) Write(name string, data []byte) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Read returns the bytes stored under a logical name.
func (s *Store) Read(name string) ([]byte, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Remove deletes one logical file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the on-disk location for a logical name, for handing to the
// external encoder.
func (s *Store) Path(name string) (string, error) {
	return s.resolve(name)
}

// Close removes the scratch directory and everything in it.
func (s *Store) Close() error {
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

// resolve maps a logical name onto the scratch directory, rejecting names
// that would escape it.
func (s *Store) resolve(name string) (string, error) {
	if s.dir == "" {
		return "", fmt.Errorf("workspace is closed")
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("logical name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(filepath.Clean(name)) {
		return "", fmt.Errorf("invalid logical name: %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
