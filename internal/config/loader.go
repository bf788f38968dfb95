package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a config loader.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  "MEDIAVAULT_",
	}
}

// Load reads configuration from file and environment.
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Load from file if exists
	if l.configPath != "" {
		if err := l.loadFile(cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	} else {
		// Try default locations
		for _, path := range l.defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				l.configPath = path
				if err := l.loadFile(cfg); err != nil {
					return nil, fmt.Errorf("load config file %s: %w", path, err)
				}
				break
			}
		}
	}

	// Override with environment variables
	l.loadEnv(cfg)

	// Validate final config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultPaths returns default config file locations.
func (l *Loader) defaultPaths() []string {
	paths := []string{
		"mediavault.json",
		".mediavault.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".config", "mediavault", "config.json"),
			filepath.Join(homeDir, ".mediavault", "config.json"),
		)
	}

	return paths
}

// loadFile reads config from a JSON file.
func (l *Loader) loadFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	return nil
}

// loadEnv applies environment variable overrides.
func (l *Loader) loadEnv(cfg *Config) {
	if v := l.env("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := l.env("VAULT_DIR"); v != "" {
		cfg.Storage.VaultDir = v
	}
	if v := l.env("SETTINGS_FILE"); v != "" {
		cfg.Storage.SettingsFile = v
	}
	if v := l.env("METADATA_FILE"); v != "" {
		cfg.Storage.MetadataFile = v
	}
	if v := l.env("AUDIT_FILE"); v != "" {
		cfg.Storage.AuditFile = v
	}
	if v := l.env("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Storage.MaxFileSize = n
		}
	}
	if v := l.env("CACHE_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Cache.MaxBytes = n
		}
	}
	if v := l.env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := l.env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := l.env("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func (l *Loader) env(key string) string {
	return os.Getenv(l.envPrefix + key)
}
