// Package vault is the engine facade the shell talks to: authentication,
// import, retrieval, folders and vault administration. Privileged calls
// check the session first; storage and cipher failures are converted to
// taxonomy errors and never crash the session.
package vault

import (
	"fmt"
	"sync"

	"mediavault/internal/audit"
	"mediavault/internal/cache"
	"mediavault/internal/crypto"
	"mediavault/internal/events"
	"mediavault/internal/metadata"
	"mediavault/internal/models"
	"mediavault/internal/session"
	"mediavault/internal/settings"
	"mediavault/internal/storage"
	"mediavault/internal/stream"
)

// Service implements the vault storage engine boundary.
type Service struct {
	settings    *settings.Store
	provider    crypto.Provider
	store       *storage.VaultStore
	meta        *metadata.Store
	cache       *cache.Cache
	ranges      *stream.Reader
	audit       *audit.Log
	logger      *events.Logger
	maxFileSize int64

	// mu serializes session lifecycle (setup, verify, logout) against
	// in-flight operations, which hold it for read. Logout therefore
	// cannot race a pending metadata save.
	mu      sync.RWMutex
	session *session.Session
}

// Deps carries the collaborators for New.
type Deps struct {
	Settings    *settings.Store
	Provider    crypto.Provider
	Store       *storage.VaultStore
	Meta        *metadata.Store
	Cache       *cache.Cache
	Audit       *audit.Log
	Logger      *events.Logger
	MaxFileSize int64
	RangeBufs   int
}

// New creates the vault service.
func New(deps Deps) *Service {
	s := &Service{
		settings:    deps.Settings,
		provider:    deps.Provider,
		store:       deps.Store,
		meta:        deps.Meta,
		cache:       deps.Cache,
		audit:       deps.Audit,
		logger:      deps.Logger.WithField("service", "vault"),
		maxFileSize: deps.MaxFileSize,
		session:     session.New(),
	}

	// The range reader decrypts independently of the whole-file cache:
	// a small first window can be served while a full fetch proceeds,
	// at the cost of one extra decrypt of the same content.
	s.ranges = stream.NewReader(s.readBlob, deps.RangeBufs, deps.Logger)

	return s
}

// SetupPin hashes a new PIN, regenerates the installation secret and
// resets the vault. Blobs written under the old secret can never be
// decrypted again, so they are wiped rather than left orphaned.
func (s *Service) SetupPin(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	material, err := s.provider.SetupPIN(pin)
	if err != nil {
		return err
	}

	cfg, err := s.settings.Load()
	if err != nil {
		return err
	}
	cfg.PinHash = material.PinHash
	cfg.KeySalt = material.InstallationSecret
	if err := s.settings.Save(cfg); err != nil {
		return err
	}

	key := s.provider.DeriveContentKey(pin, material.InstallationSecret)
	s.session.Clear()
	s.session.Establish(pin, key)

	s.cache.Clear()
	s.ranges.Clear()

	if deleted, err := s.store.Wipe(); err != nil {
		s.logger.WithError(err).Warn("Failed to wipe vault during setup")
	} else if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Wiped stale blobs during setup")
	}

	// Any previous metadata document is unreadable under the new secret;
	// install and persist a fresh one.
	_ = s.meta.Load(key)
	if err := s.meta.Reset(); err != nil {
		return err
	}

	s.audit.Record(audit.EventSetup, "", "vault reset")
	s.logger.Info("PIN setup complete")
	return nil
}

// VerifyPin checks the PIN and establishes the session on match. A
// mismatch returns false without error and without a session.
func (s *Service) VerifyPin(pin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.settings.Load()
	if err != nil {
		return false, err
	}
	if !cfg.HasPin() {
		return false, fmt.Errorf("%w: no pin configured", models.ErrInvalidInput)
	}

	if !s.provider.VerifyPIN(pin, cfg.PinHash) {
		s.audit.Record(audit.EventAuthFailure, "", "pin mismatch")
		s.logger.Warn("PIN verification failed")
		return false, nil
	}

	key := s.provider.DeriveContentKey(pin, cfg.KeySalt)
	s.session.Establish(pin, key)

	if err := s.meta.Load(key); err != nil {
		// The reference behavior treats this as an empty vault; keep the
		// availability but make the failure loud and auditable.
		s.audit.Record(audit.EventMetadataUnreadable, "", err.Error())
		s.logger.WithError(err).Error("Metadata unreadable after authentication")
	}

	s.audit.Record(audit.EventAuthSuccess, "", "")
	s.logger.Info("Session established")
	return true, nil
}

// Logout tears the session down. Mutations in flight finish first.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Authenticated() {
		return nil
	}

	s.meta.Unload()
	s.cache.Clear()
	s.ranges.Clear()
	s.session.Clear()

	s.audit.Record(audit.EventLogout, "", "")
	s.logger.Info("Session closed")
	return nil
}

// RelocateResult reports a vault directory move.
type RelocateResult struct {
	Path       string
	FilesMoved int
	Failures   []storage.MoveFailure
}

// RelocateVault moves every blob into newDir and updates the stored vault
// directory. Individual file failures are reported, not fatal.
func (s *Service) RelocateVault(newDir string) (*RelocateResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	moved, failures, err := s.store.Relocate(newDir)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	cfg.VaultDir = s.store.Dir()
	if err := s.settings.Save(cfg); err != nil {
		return nil, err
	}

	s.audit.Record(audit.EventRelocate, "", fmt.Sprintf("moved %d files", moved))

	return &RelocateResult{
		Path:       s.store.Dir(),
		FilesMoved: moved,
		Failures:   failures,
	}, nil
}

// WipeAll deletes every blob and resets the metadata document.
func (s *Service) WipeAll() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return err
	}

	deleted, err := s.store.Wipe()
	if err != nil {
		return err
	}

	if err := s.meta.Reset(); err != nil {
		return err
	}

	s.cache.Clear()
	s.ranges.Clear()

	s.audit.Record(audit.EventWipe, "", fmt.Sprintf("deleted %d files", deleted))
	s.logger.WithField("deleted", deleted).Info("Vault wiped")
	return nil
}

// Authenticated reports whether a session is active.
func (s *Service) Authenticated() bool {
	return s.session.Authenticated()
}

// requireAuth gates privileged operations. Always checked first.
func (s *Service) requireAuth() error {
	if !s.session.Authenticated() {
		return models.ErrNotAuthenticated
	}
	return nil
}

// readBlob reads and decrypts one blob under the session key.
func (s *Service) readBlob(id string) ([]byte, error) {
	key := s.session.Key()
	if key == nil {
		return nil, models.ErrNotAuthenticated
	}
	return s.store.Read(id, key)
}
