package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// OwnerPrefix is the object key prefix under which userID's photos live.
func OwnerPrefix(userID string) string {
	return HashUserKey(userID) + "/"
}

// OwnsKey reports whether key sits directly under userID's prefix.
func OwnsKey(userID, key string) bool {
	rest, ok := strings.CutPrefix(key, OwnerPrefix(userID))
	return ok && rest != "" && !strings.Contains(rest, "/")
}
