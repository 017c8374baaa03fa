// Package file provides file-based configuration storage.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a TOML file-backed implementation of
// driven.SettingsStore. Keys absent from the file keep their defaults,
// so a partial settings file is valid.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.papermind/settings.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".papermind")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "settings.toml"),
	}, nil
}

// Load reads settings from the TOML file, starting from defaults and
// overlaying whatever the file provides. A missing file yields the
// defaults. Invalid combinations fail with ErrInvalidConfiguration.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return domain.Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parse settings file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("settings file %s: %w", s.filePath, err)
	}

	return settings, nil
}

// Save writes the settings to the TOML file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
