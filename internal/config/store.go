package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"video-compressor/internal/domain"
)

// Store defines persistence operations for compression settings.
type Store interface {
	Load() (domain.EncodeSettings, error)
	Save(domain.EncodeSettings) error
}

// JSONStore persists settings in a single JSON file on disk.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-backed settings store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads settings from disk or returns defaults when missing.
func (s *JSONStore) Load() (domain.EncodeSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}

		return domain.EncodeSettings{}, err
	}

	var settings domain.EncodeSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.EncodeSettings{}, err
	}

	return settings, nil
}

// Save writes settings as indented JSON and creates parent directories.
func (s *JSONStore) Save(settings domain.EncodeSettings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}
