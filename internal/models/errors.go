package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodeAuth       = "NOT_AUTHENTICATED"
	ErrCodeInput      = "INVALID_INPUT"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeEncryption = "ENCRYPTION_ERROR"
	ErrCodeDecryption = "DECRYPTION_ERROR"
	ErrCodeIO         = "IO_ERROR"
	ErrCodeType       = "INVALID_TYPE"
)

// Sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrEncryption       = errors.New("encryption failed")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidType      = errors.New("invalid media type")
)

// VaultError provides detailed vault operation failure information.
type VaultError struct {
	Code string
	Op   string
	ID   string
	Err  error
}

func (e *VaultError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("vault %s [%s]: %s: %v", e.Op, e.Code, e.ID, e.Err)
	}
	return fmt.Sprintf("vault %s [%s]: %v", e.Op, e.Code, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

// NewVaultError wraps err with its operation context and taxonomy code.
func NewVaultError(op, id string, err error) *VaultError {
	return &VaultError{
		Code: CodeOf(err),
		Op:   op,
		ID:   id,
		Err:  err,
	}
}

// CodeOf maps an error chain to its taxonomy code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return ErrCodeAuth
	case errors.Is(err, ErrInvalidInput):
		return ErrCodeInput
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrEncryption):
		return ErrCodeEncryption
	case errors.Is(err, ErrDecryptionFailed):
		return ErrCodeDecryption
	case errors.Is(err, ErrInvalidType):
		return ErrCodeType
	default:
		return ErrCodeIO
	}
}
