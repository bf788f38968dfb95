package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"mediavault/internal/models"
)

const (
	// Key sizes
	KeySize   = 32 // AES-256
	NonceSize = 12 // GCM standard
	TagSize   = 16 // GCM tag

	// PBKDF2 parameters
	DefaultIterations = 100000

	// SecretSize is the installation secret length in raw bytes.
	SecretSize = 32
)

// DefaultProvider implements Provider with AES-256-GCM, PBKDF2 and bcrypt.
type DefaultProvider struct {
	iterations int
}

// NewProvider creates the standard crypto provider.
func NewProvider() Provider {
	return &DefaultProvider{
		iterations: DefaultIterations,
	}
}

// Encrypt seals plaintext with AES-256-GCM. The result is base64 text of
// nonce || ciphertext+tag, so decryption needs only the blob and the key.
func (p *DefaultProvider) Encrypt(plaintext, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: invalid key size %d", models.ErrEncryption, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: create cipher: %v", models.ErrEncryption, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: create GCM: %v", models.ErrEncryption, err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %v", models.ErrEncryption, err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. Wrong key and corrupted data
// are indistinguishable here; both surface as ErrDecryptionFailed.
func (p *DefaultProvider) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: invalid key size %d", models.ErrDecryptionFailed, len(key))
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blob", models.ErrDecryptionFailed)
	}

	// Minimum size: nonce + tag
	if len(raw) < NonceSize+TagSize {
		return nil, fmt.Errorf("%w: blob too short", models.ErrDecryptionFailed)
	}

	nonce := raw[:NonceSize]
	sealed := raw[NonceSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %v", models.ErrDecryptionFailed, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create GCM: %v", models.ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, models.ErrDecryptionFailed
	}

	return plaintext, nil
}

// Digest returns the SHA-256 of data.
func (p *DefaultProvider) Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
