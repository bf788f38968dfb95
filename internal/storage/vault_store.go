// Package storage maps item identifiers to on-disk encrypted blobs. It
// owns raw ciphertext only; metadata semantics live elsewhere.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mediavault/internal/crypto"
	"mediavault/internal/events"
	"mediavault/internal/models"
)

// MoveFailure records one file that could not be relocated.
type MoveFailure struct {
	Name string
	Err  error
}

// VaultStore reads and writes encrypted blobs named by item id. Operations
// on distinct ids are independent; only the vault directory path itself is
// guarded for relocation.
type VaultStore struct {
	provider crypto.Provider
	logger   *events.Logger

	mu  sync.RWMutex
	dir string
}

// NewVaultStore creates the store and its directory.
func NewVaultStore(dir string, provider crypto.Provider, logger *events.Logger) (*VaultStore, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault directory: %w", err)
	}

	if err := os.MkdirAll(absDir, 0700); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	return &VaultStore{
		provider: provider,
		logger:   logger.WithField("component", "vault_store"),
		dir:      absDir,
	}, nil
}

// Dir returns the current vault directory.
func (s *VaultStore) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// Write base64-encodes the plaintext, encrypts it under key and writes the
// blob atomically. On any failure nothing remains at the destination, so
// the caller can roll back without cleanup.
func (s *VaultStore) Write(id string, plaintext, key []byte) error {
	path, err := s.blobPath(id)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(plaintext)
	sealed, err := s.provider.Encrypt([]byte(encoded), key)
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"id":   id,
		"size": len(plaintext),
	}).Debug("Writing blob")

	// Write atomically using temp file
	tempPath := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tempPath, []byte(sealed), 0600); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

// Read loads a blob, decrypts it under key and decodes the payload bytes.
func (s *VaultStore) Read(id string, key []byte) ([]byte, error) {
	path, err := s.blobPath(id)
	if err != nil {
		return nil, err
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: blob %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}

	encoded, err := s.provider.Decrypt(string(sealed), key)
	if err != nil {
		return nil, err
	}

	plaintext, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payload encoding", models.ErrDecryptionFailed)
	}

	return plaintext, nil
}

// Delete removes a blob. A missing file is logged, not an error.
func (s *VaultStore) Delete(id string) error {
	path, err := s.blobPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("id", id).Warn("Blob already missing on delete")
			return nil
		}
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}

// List returns the ids of every blob in the vault directory.
func (s *VaultStore) List() ([]string, error) {
	s.mu.RLock()
	dir := s.dir
	s.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read vault directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			ids = append(ids, entry.Name())
		}
	}

	return ids, nil
}

// Relocate moves every regular file into newDir, deleting each source only
// after a successful copy, then switches the store to the new directory.
// Per-file failures are collected and do not abort the remaining copies.
func (s *VaultStore) Relocate(newDir string) (int, []MoveFailure, error) {
	absNew, err := filepath.Abs(newDir)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve new vault directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if absNew == s.dir {
		return 0, nil, nil
	}

	if err := os.MkdirAll(absNew, 0700); err != nil {
		return 0, nil, fmt.Errorf("create new vault directory: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, nil, fmt.Errorf("read vault directory: %w", err)
	}

	moved := 0
	var failures []MoveFailure
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if err := copyFile(filepath.Join(s.dir, name), filepath.Join(absNew, name)); err != nil {
			s.logger.WithField("file", name).WithError(err).Error("Failed to move vault file")
			failures = append(failures, MoveFailure{Name: name, Err: err})
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.WithField("file", name).WithError(err).Warn("Failed to remove source after copy")
		}
		moved++
	}

	s.logger.WithFields(map[string]interface{}{
		"from":  s.dir,
		"to":    absNew,
		"moved": moved,
	}).Info("Vault relocated")

	s.dir = absNew
	return moved, failures, nil
}

// Wipe deletes every regular file in the vault directory, best-effort.
func (s *VaultStore) Wipe() (int, error) {
	s.mu.RLock()
	dir := s.dir
	s.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read vault directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			s.logger.WithField("file", entry.Name()).WithError(err).Warn("Failed to delete vault file")
			continue
		}
		deleted++
	}

	return deleted, nil
}

// blobPath validates an id and resolves its path. Ids are flat filenames;
// anything that could escape the vault directory is rejected.
func (s *VaultStore) blobPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") || strings.ContainsRune(id, 0) {
		return "", fmt.Errorf("%w: invalid blob id %q", models.ErrInvalidInput, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return filepath.Join(s.dir, id), nil
}

// copyFile copies src to dst, replacing dst on success only.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	tempPath := fmt.Sprintf("%s.tmp.%d", dst, time.Now().UnixNano())
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	if err := os.Rename(tempPath, dst); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename destination: %w", err)
	}

	return nil
}
