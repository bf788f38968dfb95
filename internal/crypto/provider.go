package crypto

// Provider defines the cryptographic operations the vault engine needs.
type Provider interface {
	// SetupPIN hashes a new PIN and generates a fresh installation secret.
	SetupPIN(pin string) (AuthMaterial, error)

	// VerifyPIN checks a PIN against a stored hash. It returns false on
	// mismatch and never errors.
	VerifyPIN(pin, storedHash string) bool

	// DeriveContentKey deterministically derives the session key from the
	// PIN and the installation secret.
	DeriveContentKey(pin, installationSecret string) []byte

	// Encrypt seals plaintext under key into a self-contained text blob.
	Encrypt(plaintext, key []byte) (string, error)

	// Decrypt opens a text blob produced by Encrypt.
	Decrypt(ciphertext string, key []byte) ([]byte, error)

	// Digest returns a collision-resistant digest (used for identifiers,
	// not confidentiality).
	Digest(data []byte) []byte

	// NewItemID generates a storage identifier for an imported file.
	NewItemID(originalName, pin string) (string, error)
}

// AuthMaterial is the persistable output of PIN setup.
type AuthMaterial struct {
	PinHash            string
	InstallationSecret string
}
