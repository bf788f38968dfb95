package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

const (
	// IDPrefix tags every generated storage identifier.
	IDPrefix = "vault_"

	// idDigestLen is the hex length kept from the digest.
	idDigestLen = 20

	// idEntropySize is the random input mixed into each identifier.
	idEntropySize = 8
)

// NewItemID generates a storage identifier for an imported file. The name,
// current time, random entropy and the PIN feed a one-way digest, so the
// identifier reveals neither the original name nor the PIN. The normalized
// original extension is kept as a suffix.
func (p *DefaultProvider) NewItemID(originalName, pin string) (string, error) {
	entropy := make([]byte, idEntropySize)
	if _, err := io.ReadFull(rand.Reader, entropy); err != nil {
		return "", fmt.Errorf("generate id entropy: %w", err)
	}

	input := fmt.Sprintf("%s|%d|%s|%s",
		originalName,
		time.Now().UnixNano(),
		hex.EncodeToString(entropy),
		pin,
	)

	digest := hex.EncodeToString(p.Digest([]byte(input)))
	ext := strings.ToLower(filepath.Ext(originalName))

	return IDPrefix + digest[:idDigestLen] + ext, nil
}
