package models

// VaultSettings is the persistent, unencrypted installation state.
// PinHash is empty exactly when no PIN has been set up yet.
type VaultSettings struct {
	// PinHash is a salted one-way hash of the PIN, used only for
	// verification. It never participates in key derivation.
	PinHash string `json:"pin_hash"`

	// VaultDir is the directory holding the encrypted blobs.
	VaultDir string `json:"vault_dir"`

	// KeySalt is the per-installation secret mixed with the PIN to derive
	// the session key. Regenerating it makes all prior blobs unreadable.
	KeySalt string `json:"key_salt"`
}

// HasPin reports whether setup has completed.
func (s *VaultSettings) HasPin() bool {
	return s.PinHash != ""
}
