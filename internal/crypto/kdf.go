package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"mediavault/internal/models"
)

// MinPinLength is the minimum accepted PIN length. Digits-only is a UI
// constraint and is not enforced here.
const MinPinLength = 4

// SetupPIN hashes a new PIN for verification and generates a fresh random
// installation secret. Regenerating the secret makes anything encrypted
// under the old one unreadable, so callers must treat setup as vault reset.
func (p *DefaultProvider) SetupPIN(pin string) (AuthMaterial, error) {
	if len(pin) < MinPinLength {
		return AuthMaterial{}, fmt.Errorf("%w: pin must be at least %d characters", models.ErrInvalidInput, MinPinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return AuthMaterial{}, fmt.Errorf("hash pin: %w", err)
	}

	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return AuthMaterial{}, fmt.Errorf("generate installation secret: %w", err)
	}

	return AuthMaterial{
		PinHash:            string(hash),
		InstallationSecret: base64.StdEncoding.EncodeToString(secret),
	}, nil
}

// VerifyPIN checks a PIN against a stored bcrypt hash.
func (p *DefaultProvider) VerifyPIN(pin, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin)) == nil
}

// DeriveContentKey derives the symmetric session key from the PIN and the
// installation secret with PBKDF2-SHA256. The derivation is deterministic:
// the same inputs must always yield the same key, or every previously
// written blob becomes permanently unreadable.
func (p *DefaultProvider) DeriveContentKey(pin, installationSecret string) []byte {
	return pbkdf2.Key([]byte(pin), []byte(installationSecret), p.iterations, KeySize, sha256.New)
}
