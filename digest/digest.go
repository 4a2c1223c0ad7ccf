// Package digest provides the one-way mapping used to de-identify values.
// Digests are deterministic and unsalted, so equal values anonymized in
// independent runs can still be joined on.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Size is the length, in hex characters, of every digest
const Size = sha256.Size * 2

var digestPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// Digest returns the lowercase hex encoding of the SHA-256 hash of value's UTF-8 bytes
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsDigest returns true iff s has the shape of a value produced by Digest
func IsDigest(s string) bool {
	return len(s) == Size && digestPattern.MatchString(s)
}

// UsesDigestAlphabet returns true iff s is non-empty and made only of characters
// which may appear in a digest. Such strings are ambiguous when used as sentinels.
func UsesDigestAlphabet(s string) bool {
	return len(s) > 0 && digestPattern.MatchString(s)
}
