package encryption

import (
	"crypto/sha256"
)

// KeySize is the length of every key produced by DeriveKey.
const KeySize = sha256.Size

// DeriveKey turns an arbitrary, non-empty secret into a KeySize key by hashing it with SHA-256.
//
// The derivation is deterministic and unsalted, so the same secret always yields the same key.
// It normalizes the secret length only; it offers none of the brute-force resistance of a
// memory-hard KDF such as scrypt or Argon2 and should not be relied on for low-entropy secrets.
//
// Callers own the returned slice and should clear it once the operation completes.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrInvalidSecret
	}

	sum := sha256.Sum256([]byte(secret))

	return sum[:], nil
}
