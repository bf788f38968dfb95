package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/events"
	"mediavault/internal/settings"
)

func TestStore_FirstRunCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	store := settings.NewStore(path, filepath.Join(dir, "Vault"), events.NopLogger())

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Vault"), cfg.VaultDir)
	assert.False(t, cfg.HasPin())

	// The file now exists with restrictive permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := settings.NewStore(filepath.Join(dir, "settings.json"), filepath.Join(dir, "Vault"), events.NopLogger())

	cfg, err := store.Load()
	require.NoError(t, err)
	cfg.PinHash = "$2a$10$hash"
	cfg.KeySalt = "c2VjcmV0"
	cfg.VaultDir = filepath.Join(dir, "Elsewhere")
	require.NoError(t, store.Save(cfg))

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.PinHash, reloaded.PinHash)
	assert.Equal(t, cfg.KeySalt, reloaded.KeySalt)
	assert.Equal(t, cfg.VaultDir, reloaded.VaultDir)
	assert.True(t, reloaded.HasPin())
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := settings.NewStore(path, filepath.Join(dir, "Vault"), events.NopLogger())
	_, err := store.Load()
	assert.Error(t, err)
}

func TestStore_EmptyVaultDirFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pin_hash": "h"}`), 0600))

	store := settings.NewStore(path, filepath.Join(dir, "Vault"), events.NopLogger())
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Vault"), cfg.VaultDir)
}
