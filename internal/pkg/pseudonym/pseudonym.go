package pseudonym

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultPrefix is the human-readable prefix all generated pseudonyms share.
const DefaultPrefix = "mood_"

// suffixBytes yields an 8-char lower-hex suffix: 2^32 values, so collisions
// are rare but not impossible, so callers must probe the store and retry.
const suffixBytes = 4

// New generates an anonymous display name: prefix + 8 random hex chars.
func New(prefix string) (string, error) {
	b := make([]byte, suffixBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate pseudonym: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}
