// Package client wires the vault engine together from configuration.
package client

import (
	"fmt"
	"os"

	"mediavault/internal/audit"
	"mediavault/internal/cache"
	"mediavault/internal/config"
	"mediavault/internal/crypto"
	"mediavault/internal/events"
	"mediavault/internal/metadata"
	"mediavault/internal/services/vault"
	"mediavault/internal/settings"
	"mediavault/internal/storage"
)

// Client provides the high-level API for vault operations.
type Client struct {
	Vault *vault.Service
	Audit *audit.Log

	config *config.Config
	logger *events.Logger
}

// New creates a vault client.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	provider := crypto.NewProvider()

	settingsStore := settings.NewStore(cfg.Storage.SettingsFile, cfg.Storage.VaultDir, logger)
	installed, err := settingsStore.Load()
	if err != nil {
		return nil, err
	}

	// The vault directory follows the settings file, not the config
	// default, so relocation survives restarts.
	blobStore, err := storage.NewVaultStore(installed.VaultDir, provider, logger)
	if err != nil {
		return nil, err
	}

	metaStore := metadata.NewStore(cfg.Storage.MetadataFile, provider, logger)
	sessionCache := cache.New(cfg.Cache.MaxBytes, logger)

	auditLog, err := audit.NewLog(cfg.Storage.AuditFile, logger)
	if err != nil {
		return nil, err
	}

	vaultService := vault.New(vault.Deps{
		Settings:    settingsStore,
		Provider:    provider,
		Store:       blobStore,
		Meta:        metaStore,
		Cache:       sessionCache,
		Audit:       auditLog,
		Logger:      logger,
		MaxFileSize: cfg.Storage.MaxFileSize,
		RangeBufs:   cfg.Cache.MaxRangeBuffers,
	})

	return &Client{
		Vault:  vaultService,
		Audit:  auditLog,
		config: cfg,
		logger: logger,
	}, nil
}

// Close ends the session and releases resources.
func (c *Client) Close() error {
	if err := c.Vault.Logout(); err != nil {
		c.logger.WithError(err).Warn("Logout during close failed")
	}
	return c.Audit.Close()
}
