package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashURL creates a SHA256 hash of a URL or query string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
