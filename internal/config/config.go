package config

import (
	"errors"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	// Storage paths
	Storage StorageConfig `json:"storage"`

	// Cache behavior
	Cache CacheConfig `json:"cache"`

	// Logging
	Log LogConfig `json:"log"`
}

// StorageConfig for local file paths.
type StorageConfig struct {
	DataDir      string `json:"data_dir"`      // Base directory for all data
	VaultDir     string `json:"vault_dir"`     // Default encrypted blob directory
	SettingsFile string `json:"settings_file"` // Plaintext settings (pin hash, key salt)
	MetadataFile string `json:"metadata_file"` // Encrypted metadata document
	AuditFile    string `json:"audit_file"`    // Security event database
	MaxFileSize  int64  `json:"max_file_size"` // Max import size in bytes
}

// CacheConfig bounds the in-memory decrypted-content caches.
type CacheConfig struct {
	MaxBytes        int64 `json:"max_bytes"`         // Byte budget for the session cache
	MaxRangeBuffers int   `json:"max_range_buffers"` // Decoded buffers kept by the range reader
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level     string `json:"level"`  // debug, info, warn, error
	Format    string `json:"format"` // text, json
	File      string `json:"file"`   // Log file path (empty = stdout)
	Color     bool   `json:"color"`
	Timestamp bool   `json:"timestamp"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".mediavault"

	return &Config{
		Storage: StorageConfig{
			DataDir:      dataDir,
			VaultDir:     filepath.Join(dataDir, "Vault"),
			SettingsFile: filepath.Join(dataDir, "settings.json"),
			MetadataFile: filepath.Join(dataDir, "metadata.dat"),
			AuditFile:    filepath.Join(dataDir, "audit.db"),
			MaxFileSize:  2 * 1024 * 1024 * 1024, // 2GB
		},
		Cache: CacheConfig{
			MaxBytes:        256 * 1024 * 1024, // 256MB
			MaxRangeBuffers: 4,
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			File:      "",
			Color:     true,
			Timestamp: true,
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	if c.Storage.VaultDir == "" {
		return errors.New("storage.vault_dir is required")
	}

	if c.Storage.MaxFileSize <= 0 {
		return errors.New("storage.max_file_size must be positive")
	}

	if c.Cache.MaxBytes <= 0 {
		return errors.New("cache.max_bytes must be positive")
	}

	if c.Cache.MaxRangeBuffers <= 0 {
		return errors.New("cache.max_range_buffers must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be debug, info, warn or error")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("log.format must be text or json")
	}

	return nil
}
