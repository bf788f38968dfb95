// Package settings persists the plaintext installation state: the PIN
// hash, the vault directory and the installation secret. The file itself
// is never encrypted; nothing in it can decrypt vault content on its own.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mediavault/internal/events"
	"mediavault/internal/models"
)

// Store reads and writes the settings file.
type Store struct {
	path     string
	defaults models.VaultSettings
	logger   *events.Logger

	mu sync.Mutex
}

// NewStore creates a settings store. defaultVaultDir is used when no
// settings file exists yet (first run).
func NewStore(path, defaultVaultDir string, logger *events.Logger) *Store {
	return &Store{
		path: path,
		defaults: models.VaultSettings{
			VaultDir: defaultVaultDir,
		},
		logger: logger.WithField("component", "settings"),
	}
}

// Load reads the settings file, creating it with defaults on first run.
func (s *Store) Load() (*models.VaultSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("No settings file, creating defaults")
		cfg := s.defaults
		if err := s.write(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg models.VaultSettings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if cfg.VaultDir == "" {
		cfg.VaultDir = s.defaults.VaultDir
	}

	return &cfg, nil
}

// Save persists the settings atomically.
func (s *Store) Save(cfg *models.VaultSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(cfg)
}

// write serializes and atomically replaces the settings file.
func (s *Store) write(cfg *models.VaultSettings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tempPath := fmt.Sprintf("%s.tmp.%d", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("write temp settings: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename settings: %w", err)
	}

	return nil
}
